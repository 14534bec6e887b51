package observability

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is a one-shot view of a process, reported at shutdown.
type ProcessStats struct {
	PID        int32
	Status     string
	CPUPercent float64
	RSSBytes   uint64
	AllocMb    uint64
	NumGC      uint32
	Goroutines int
}

// ProcessSnapshot reads technical metrics (memory, CPU and OS status) for
// pid. Go runtime figures are only filled in for the calling process.
func ProcessSnapshot(pid int32) (ProcessStats, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return ProcessStats{}, fmt.Errorf("find process %d: %w", pid, err)
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, fmt.Errorf("memory of process %d: %w", pid, err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, fmt.Errorf("cpu of process %d: %w", pid, err)
	}
	status, err := p.Status()
	if err != nil {
		return ProcessStats{}, fmt.Errorf("status of process %d: %w", pid, err)
	}

	stats := ProcessStats{
		PID:        pid,
		Status:     status,
		CPUPercent: cpu,
		RSSBytes:   memInfo.RSS,
	}
	if int(pid) == os.Getpid() {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		stats.AllocMb = m.Alloc / 1024 / 1024
		stats.NumGC = m.NumGC
		stats.Goroutines = runtime.NumGoroutine()
	}
	return stats, nil
}

// LogSelf logs the snapshot of the current process. Failures are only
// logged, the report is best effort.
func LogSelf(log *slog.Logger) {
	stats, err := ProcessSnapshot(int32(os.Getpid()))
	if err != nil {
		log.Warn("Failed to collect self stats", "err", err)
		return
	}
	log.Info("Process stats",
		"pid", stats.PID,
		"status", stats.Status,
		"cpu_percent", stats.CPUPercent,
		"rss_bytes", stats.RSSBytes,
		"alloc_mb", stats.AllocMb,
		"num_gc", stats.NumGC,
		"goroutines", stats.Goroutines,
	)
}

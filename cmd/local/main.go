package main

import (
	"context"
	"exchange-lab/internal"
	"exchange-lab/observability"
	"exchange-lab/runtime"
	"exchange-lab/sink"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Exchange terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run plays both roles in this process and reports the outcome.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Exchange
	fmt.Printf("Initiator will send %d messages in total.\n", config.TotalMessages)
	coordinator := runtime.NewCoordinator(log, config.Exchange(),
		runtime.Timeouts{
			Exchange:        config.ExchangeTimeout,
			Dial:            config.DialTimeout,
			RestartInterval: config.RestartInterval,
		},
		sink.NewConsoleSink(os.Stdout, config.Colours),
		sink.NewLogSink(log),
	)
	result, err := coordinator.RunLocal(ctx)

	// 4. Report, even for an aborted exchange
	observability.RenderSummary(os.Stdout, result)
	observability.LogSelf(log)
	if err != nil {
		return exitRuntime, err
	}
	log.Info("Program stopped cleanly", "state", result.State, "duration", result.Duration)
	return exitOK, nil
}

package observability

import (
	"bytes"
	"exchange-lab/domain"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessSnapshot_Self(t *testing.T) {
	req := require.New(t)

	stats, err := ProcessSnapshot(int32(os.Getpid()))

	req.NoError(err)
	req.Equal(int32(os.Getpid()), stats.PID)
	req.NotZero(stats.RSSBytes)
	req.Positive(stats.Goroutines)
}

func TestRenderSummary(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	result := domain.Result{
		State:     domain.StateTerminated,
		Initiator: &domain.PeerStats{Role: domain.Initiator, SentCount: 3, ReceivedCount: 3},
		Receiver:  &domain.PeerStats{Role: domain.Receiver, SentCount: 3, ReceivedCount: 4},
		Outcomes: map[domain.Role]string{
			domain.Initiator: "limit_reached",
			domain.Receiver:  "stop_received",
		},
	}

	RenderSummary(&buf, result)

	out := buf.String()
	req.Contains(out, "ROLE")
	req.Contains(out, "Initiator")
	req.Contains(out, "Receiver")
	req.Contains(out, "limit_reached")
	req.Contains(out, "stop_received")
}

func TestRenderSummary_SinglePeer(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	RenderSummary(&buf, domain.Result{
		Receiver: &domain.PeerStats{Role: domain.Receiver, SentCount: 1, ReceivedCount: 1},
		Outcomes: map[domain.Role]string{domain.Receiver: "stream_closed"},
	})

	req.NotContains(buf.String(), "Initiator")
	req.Contains(buf.String(), "stream_closed")
}

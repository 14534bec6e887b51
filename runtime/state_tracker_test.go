package runtime

import (
	"context"
	"exchange-lab/domain"
	"exchange-lab/domain/event"
	"exchange-lab/errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func header(role domain.Role) event.Header {
	return event.NewHeader(uuid.New(), role)
}

func TestStateTracker_FullExchange(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	tracker := NewStateTracker(slog.Default(), domain.Initiator, domain.Receiver)

	req.Equal(domain.StateInit, tracker.State())

	req.NoError(tracker.Consume(ctx, event.MessageSent{Header: header(domain.Initiator), Payload: domain.SeedMessage}))
	req.Equal(domain.StateExchanging, tracker.State())

	req.NoError(tracker.Consume(ctx, event.StopIssued{Header: header(domain.Initiator)}))
	req.NoError(tracker.Consume(ctx, event.PeerStopped{Header: header(domain.Initiator), Reason: event.LimitReached}))
	req.Equal(domain.StateStopping, tracker.State())

	req.NoError(tracker.Consume(ctx, event.PeerStopped{Header: header(domain.Receiver), Reason: event.StopReceived}))
	req.Equal(domain.StateTerminated, tracker.State())

	req.Equal([]domain.ExchangeState{
		domain.StateInit, domain.StateExchanging, domain.StateStopping, domain.StateTerminated,
	}, tracker.History())
}

func TestStateTracker_ReceiverSeesStopFirst(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	tracker := NewStateTracker(slog.Default(), domain.Initiator, domain.Receiver)

	req.NoError(tracker.Consume(ctx, event.MessageReceived{Header: header(domain.Receiver)}))
	// Given the receiver reports STOP before the initiator reports issuing it
	req.NoError(tracker.Consume(ctx, event.PeerStopped{Header: header(domain.Receiver), Reason: event.StopReceived}))
	req.NoError(tracker.Consume(ctx, event.StopIssued{Header: header(domain.Initiator)}))
	req.NoError(tracker.Consume(ctx, event.PeerStopped{Header: header(domain.Initiator), Reason: event.LimitReached}))

	req.Equal(domain.StateTerminated, tracker.State())
}

func TestStateTracker_RejectsStopAfterTermination(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	tracker := NewStateTracker(slog.Default(), domain.Receiver)

	req.NoError(tracker.Consume(ctx, event.PeerStopped{Header: header(domain.Receiver), Reason: event.StreamClosed}))
	req.Equal(domain.StateTerminated, tracker.State())

	err := tracker.Consume(ctx, event.StopIssued{Header: header(domain.Initiator)})
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

package workers

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain"
	"exchange-lab/domain/event"
	"exchange-lab/errors"
	"fmt"
	"log/slog"
	"sync"
)

// Ensure *PeerWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*PeerWorker)(nil)

// PeerWorker drives one domain.Peer over a transport. It only reacts to
// inbound messages; the only suspension point is Receive.
type PeerWorker struct {
	log       *slog.Logger
	peer      *domain.Peer
	transport contract.Transport
	sink      contract.EventSink
	exchange  domain.ExchangeID
	seed      string

	reason   event.StopReason
	done     chan struct{}
	doneOnce sync.Once
}

func NewPeerWorker(
	log *slog.Logger,
	exchange domain.ExchangeID,
	peer *domain.Peer,
	transport contract.Transport,
	sink contract.EventSink) *PeerWorker {
	return &PeerWorker{
		log:       log.With("role", peer.Role().String()),
		peer:      peer,
		transport: transport,
		sink:      sink,
		exchange:  exchange,
		done:      make(chan struct{}),
	}
}

func (w *PeerWorker) Name() string {
	return w.peer.Role().String()
}

// Done is closed once the peer left its loop, whatever the reason.
func (w *PeerWorker) Done() <-chan struct{} {
	return w.done
}

// Reason is only meaningful after Done is closed.
func (w *PeerWorker) Reason() event.StopReason {
	return w.reason
}

// Stats must be read after Done is closed.
func (w *PeerWorker) Stats() domain.PeerStats {
	return w.peer.Stats()
}

// Open makes Run send seed before waiting for the first reply. Only the
// Initiator opens, and it must do so before Run starts.
func (w *PeerWorker) Open(seed string) {
	w.seed = seed
}

// Run consumes inbound messages until the peer stops.
// A clean stop (STOP received, limit reached, opponent gone) returns nil.
// An interrupted wait returns ctx.Err() without telling the opponent.
func (w *PeerWorker) Run(ctx context.Context) error {
	if w.seed != "" {
		seed := w.seed
		w.seed = ""
		if err := w.send(ctx, seed); err != nil {
			w.peer.Interrupt()
			w.finish(ctx, event.SendFailed)
			return err
		}
	}
	for w.peer.Running() {
		msg, err := w.transport.Receive(ctx)
		if err != nil {
			return w.fail(ctx, err)
		}

		action := w.peer.Receive(msg)
		w.emit(ctx, event.MessageReceived{
			Header:        w.header(),
			Payload:       msg,
			ReceivedCount: w.peer.Stats().ReceivedCount,
		})

		switch action.Kind {
		case domain.ActionHalt:
			w.finish(ctx, event.StopReceived)
			return nil
		case domain.ActionIssueStop:
			return w.issueStop(ctx)
		case domain.ActionReply:
			if err := w.send(ctx, action.Payload); err != nil {
				w.peer.Interrupt()
				w.finish(ctx, event.SendFailed)
				return err
			}
		}
	}
	w.finish(ctx, event.StopReceived)
	return nil
}

func (w *PeerWorker) issueStop(ctx context.Context) error {
	stats := w.peer.Stats()
	w.log.Info("Exchange limit reached, sending stop signal",
		"sent", stats.SentCount, "received", stats.ReceivedCount)

	w.peer.Sent(domain.StopSignal)
	w.emit(ctx, event.StopIssued{
		Header:        w.header(),
		SentCount:     stats.SentCount,
		ReceivedCount: stats.ReceivedCount,
	})
	if err := w.transport.Send(ctx, domain.StopSignal); err != nil {
		w.finish(ctx, event.SendFailed)
		return fmt.Errorf("send stop signal: %w", err)
	}
	w.finish(ctx, event.LimitReached)
	return nil
}

func (w *PeerWorker) fail(ctx context.Context, err error) error {
	w.peer.Interrupt()
	switch {
	case errors.Is(err, errors.ErrStreamClosed):
		w.log.Warn("Opponent closed the stream unexpectedly")
		w.finish(ctx, event.StreamClosed)
		return nil
	case ctx.Err() != nil:
		w.log.Warn("Peer interrupted, shutting down", "error", err)
		w.finish(context.WithoutCancel(ctx), event.Interrupted)
		return ctx.Err()
	default:
		w.log.Error("Receive failed", "error", err)
		w.finish(ctx, event.StreamClosed)
		return fmt.Errorf("receive: %w", err)
	}
}

// send counts and reports the message before handing it to the transport:
// once it is transmitted the opponent may answer, and the answer is
// processed on the worker goroutine.
func (w *PeerWorker) send(ctx context.Context, msg string) error {
	w.peer.Sent(msg)
	w.emit(ctx, event.MessageSent{
		Header:    w.header(),
		Payload:   msg,
		SentCount: w.peer.Stats().SentCount,
	})
	if err := w.transport.Send(ctx, msg); err != nil {
		w.log.Error("Send failed", "payload", msg, "error", err)
		return fmt.Errorf("send %q: %w", msg, err)
	}
	return nil
}

func (w *PeerWorker) finish(ctx context.Context, reason event.StopReason) {
	w.doneOnce.Do(func() {
		w.reason = reason
		w.emit(ctx, event.PeerStopped{
			Header: w.header(),
			Reason: reason,
			Stats:  w.peer.Stats(),
		})
		close(w.done)
	})
}

func (w *PeerWorker) emit(ctx context.Context, e event.Event) {
	if w.sink == nil {
		return
	}
	if err := w.sink.Consume(ctx, e); err != nil {
		w.log.Warn("Event not delivered", "event", e.Name(), "error", err)
	}
}

func (w *PeerWorker) header() event.Header {
	return event.NewHeader(w.exchange, w.peer.Role())
}

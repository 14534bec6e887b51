package sink

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain/event"
	"log/slog"
)

var _ contract.EventSink = LogSink{}

// LogSink writes one structured line per exchange event.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(ctx context.Context, e event.Event) error {
	switch evt := e.(type) {
	case event.MessageSent:
		s.log.DebugContext(ctx, "Message sent",
			"exchange", evt.Exchange, "role", evt.Role, "payload", evt.Payload, "sent", evt.SentCount)
	case event.MessageReceived:
		s.log.DebugContext(ctx, "Message received",
			"exchange", evt.Exchange, "role", evt.Role, "payload", evt.Payload, "received", evt.ReceivedCount)
	case event.StopIssued:
		s.log.InfoContext(ctx, "Stop signal issued",
			"exchange", evt.Exchange, "role", evt.Role, "sent", evt.SentCount, "received", evt.ReceivedCount)
	case event.PeerStopped:
		s.log.InfoContext(ctx, "Peer stopped",
			"exchange", evt.Exchange, "role", evt.Role, "reason", evt.Reason,
			"sent", evt.Stats.SentCount, "received", evt.Stats.ReceivedCount)
	case event.WorkerRestarted:
		s.log.WarnContext(ctx, "Worker restarted after panic", "name", evt.WorkerName)
	default:
		s.log.Debug("Unhandled event", "name", e.Name())
	}
	return nil
}

package sink

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain/event"
	"log/slog"

	"github.com/samber/lo"
)

var _ contract.EventSink = Multi{}

// Multi forwards each event to every sink, in order. A failing sink is
// logged and skipped; it never interrupts the exchange.
type Multi struct {
	log   *slog.Logger
	sinks []contract.EventSink
}

func NewMulti(log *slog.Logger, sinks ...contract.EventSink) Multi {
	return Multi{
		log: log,
		sinks: lo.Filter(sinks, func(s contract.EventSink, _ int) bool {
			return s != nil
		}),
	}
}

func (m Multi) Consume(ctx context.Context, e event.Event) error {
	for _, s := range m.sinks {
		if err := s.Consume(ctx, e); err != nil {
			m.log.Warn("Sink failed", "event", e.Name(), "error", err)
		}
	}
	return nil
}

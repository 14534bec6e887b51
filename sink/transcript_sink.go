package sink

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain"
	"exchange-lab/domain/event"
	"sync"

	"github.com/samber/lo"
)

var _ contract.EventSink = (*Transcript)(nil)

// Transcript keeps every event of an exchange in arrival order.
type Transcript struct {
	mu     sync.RWMutex
	events []event.Event
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Consume(_ context.Context, e event.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
	return nil
}

func (t *Transcript) Events() []event.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]event.Event(nil), t.events...)
}

// Sent lists the payloads sent by role, in send order.
func (t *Transcript) Sent(role domain.Role) []string {
	return lo.FilterMap(t.Events(), func(e event.Event, _ int) (string, bool) {
		sent, ok := e.(event.MessageSent)
		return sent.Payload, ok && sent.Role == role
	})
}

// Received lists the payloads received by role, in delivery order.
func (t *Transcript) Received(role domain.Role) []string {
	return lo.FilterMap(t.Events(), func(e event.Event, _ int) (string, bool) {
		received, ok := e.(event.MessageReceived)
		return received.Payload, ok && received.Role == role
	})
}

func (t *Transcript) StopsIssued() []event.StopIssued {
	return lo.FilterMap(t.Events(), func(e event.Event, _ int) (event.StopIssued, bool) {
		stop, ok := e.(event.StopIssued)
		return stop, ok
	})
}

// Stopped returns the stop event of role, if it stopped.
func (t *Transcript) Stopped(role domain.Role) (event.PeerStopped, bool) {
	stopped := lo.FilterMap(t.Events(), func(e event.Event, _ int) (event.PeerStopped, bool) {
		s, ok := e.(event.PeerStopped)
		return s, ok && s.Role == role
	})
	if len(stopped) == 0 {
		return event.PeerStopped{}, false
	}
	return stopped[len(stopped)-1], true
}

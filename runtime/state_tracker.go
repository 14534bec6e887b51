package runtime

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

var _ contract.EventSink = (*StateTracker)(nil)

// StateTracker follows the exchange state machine from the event stream.
// The exchange is TERMINATED once every locally hosted peer has stopped.
type StateTracker struct {
	mu      sync.Mutex
	log     *slog.Logger
	state   domain.ExchangeState
	history []domain.ExchangeState
	hosted  map[domain.Role]bool
}

func NewStateTracker(log *slog.Logger, hosted ...domain.Role) *StateTracker {
	t := &StateTracker{
		log:     log,
		state:   domain.StateInit,
		history: []domain.ExchangeState{domain.StateInit},
		hosted:  make(map[domain.Role]bool, len(hosted)),
	}
	for _, role := range hosted {
		t.hosted[role] = false
	}
	return t
}

func (t *StateTracker) Consume(_ context.Context, e event.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.MessageSent, event.MessageReceived:
		if t.state == domain.StateInit {
			return t.transition(domain.StateExchanging)
		}
	case event.StopIssued:
		return t.transition(domain.StateStopping)
	case event.PeerStopped:
		if evt.Reason == event.StopReceived && t.state == domain.StateExchanging {
			if err := t.transition(domain.StateStopping); err != nil {
				return err
			}
		}
		if _, ok := t.hosted[evt.Role]; ok {
			t.hosted[evt.Role] = true
		}
		if t.allStopped() {
			return t.transition(domain.StateTerminated)
		}
	}
	return nil
}

func (t *StateTracker) State() domain.ExchangeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *StateTracker) History() []domain.ExchangeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.ExchangeState(nil), t.history...)
}

func (t *StateTracker) transition(next domain.ExchangeState) error {
	if t.state == next {
		return nil
	}
	if !t.state.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, t.state, next)
	}
	t.log.Debug("Exchange state changed", "from", t.state, "to", next)
	t.state = next
	t.history = append(t.history, next)
	return nil
}

func (t *StateTracker) allStopped() bool {
	for _, stopped := range t.hosted {
		if !stopped {
			return false
		}
	}
	return len(t.hosted) > 0
}

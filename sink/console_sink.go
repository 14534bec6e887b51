package sink

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain"
	"exchange-lab/domain/event"
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
)

var _ contract.EventSink = (*ConsoleSink)(nil)

// ConsoleSink prints the human-readable progress of an exchange.
type ConsoleSink struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
	styles  map[domain.Role]color.Style
}

func NewConsoleSink(out io.Writer, colours bool) *ConsoleSink {
	return &ConsoleSink{
		out:     out,
		colours: colours,
		styles: map[domain.Role]color.Style{
			domain.Initiator: color.New(color.FgCyan, color.OpBold),
			domain.Receiver:  color.New(color.FgMagenta, color.OpBold),
		},
	}
}

func (s *ConsoleSink) Consume(_ context.Context, e event.Event) error {
	var line string
	switch evt := e.(type) {
	case event.MessageSent:
		line = fmt.Sprintf("%s Sending message #%d: '%s'", s.tag(evt.Role), evt.SentCount, evt.Payload)
	case event.MessageReceived:
		line = fmt.Sprintf("%s Received message #%d: '%s'", s.tag(evt.Role), evt.ReceivedCount, evt.Payload)
	case event.StopIssued:
		line = fmt.Sprintf("%s has now sent %d messages and received %d replies. Sending %s.",
			s.tag(evt.Role), evt.SentCount, evt.ReceivedCount, domain.StopSignal)
	case event.PeerStopped:
		line = fmt.Sprintf("%s has stopped (%s).", s.tag(evt.Role), evt.Reason)
	case event.WorkerRestarted:
		line = fmt.Sprintf("[%s] restarted after panic.", evt.WorkerName)
	default:
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, line)
	return err
}

func (s *ConsoleSink) tag(role domain.Role) string {
	tag := "[" + role.String() + "]"
	if !s.colours {
		return tag
	}
	return s.styles[role].Render(tag)
}

package event

import (
	"exchange-lab/domain"
	"time"

	"github.com/google/uuid"
)

// Event is anything a peer reports while the exchange runs.
type Event interface {
	Name() string
	OccurredAt() time.Time
}

// StopReason explains why a peer left its loop.
type StopReason string

const (
	StopReceived StopReason = "stop_received"
	LimitReached StopReason = "limit_reached"
	Interrupted  StopReason = "interrupted"
	StreamClosed StopReason = "stream_closed"
	SendFailed   StopReason = "send_failed"
)

// Header is shared by every exchange event.
type Header struct {
	ID       uuid.UUID
	Exchange domain.ExchangeID
	Role     domain.Role
	At       time.Time
}

func NewHeader(exchange domain.ExchangeID, role domain.Role) Header {
	return Header{ID: uuid.New(), Exchange: exchange, Role: role, At: time.Now().UTC()}
}

func (h Header) OccurredAt() time.Time {
	return h.At
}

type MessageSent struct {
	Header
	Payload   string
	SentCount int
}

func (MessageSent) Name() string { return "MessageSent" }

type MessageReceived struct {
	Header
	Payload       string
	ReceivedCount int
}

func (MessageReceived) Name() string { return "MessageReceived" }

// StopIssued is emitted once, by the role owning the termination decision.
type StopIssued struct {
	Header
	SentCount     int
	ReceivedCount int
}

func (StopIssued) Name() string { return "StopIssued" }

type PeerStopped struct {
	Header
	Reason StopReason
	Stats  domain.PeerStats
}

func (PeerStopped) Name() string { return "PeerStopped" }

// WorkerRestarted is raised by the supervisor after recovering a panic.
type WorkerRestarted struct {
	WorkerName string
	At         time.Time
}

func (WorkerRestarted) Name() string { return "WorkerRestarted" }

func (w WorkerRestarted) OccurredAt() time.Time { return w.At }

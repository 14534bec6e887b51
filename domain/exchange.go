package domain

import (
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ExchangeConfig is built once at startup and never mutated.
type ExchangeConfig struct {
	TotalMessages int
	Host          string
	Port          int
}

func (c ExchangeConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ListenAddress binds every interface on the configured port.
func (c ExchangeConfig) ListenAddress() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

type ExchangeID = uuid.UUID

func NewExchangeID() ExchangeID {
	return uuid.New()
}

// ExchangeState is the composite state of the exchange seen from the Initiator.
type ExchangeState string

const (
	StateInit       ExchangeState = "INIT"
	StateExchanging ExchangeState = "EXCHANGING"
	StateStopping   ExchangeState = "STOPPING"
	StateTerminated ExchangeState = "TERMINATED"
)

// CanTransition reports whether next directly follows s.
// STOPPING may be skipped when the exchange ends without a stop signal
// (stream closure or interruption).
func (s ExchangeState) CanTransition(next ExchangeState) bool {
	switch s {
	case StateInit:
		return next == StateExchanging || next == StateTerminated
	case StateExchanging:
		return next == StateStopping || next == StateTerminated
	case StateStopping:
		return next == StateTerminated
	default:
		return false
	}
}

// Result summarises a finished exchange. Peers not hosted by this process
// are nil; Outcomes holds why each hosted peer stopped.
type Result struct {
	ExchangeID ExchangeID
	State      ExchangeState
	Initiator  *PeerStats
	Receiver   *PeerStats
	Outcomes   map[Role]string
	Duration   time.Duration
}

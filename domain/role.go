package domain

import (
	"exchange-lab/errors"
	"fmt"
	"strings"
)

// Role identifies which side of the exchange a peer plays.
type Role int

const (
	Initiator Role = iota
	Receiver
)

func (r Role) String() string {
	switch r {
	case Initiator:
		return "Initiator"
	case Receiver:
		return "Receiver"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// OwnsTermination reports whether the role decides when the exchange ends.
// The Receiver only ever reacts to the stop signal.
func (r Role) OwnsTermination() bool {
	return r == Initiator
}

// Opponent returns the role on the other end of the channel.
func (r Role) Opponent() Role {
	if r == Initiator {
		return Receiver
	}
	return Initiator
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initiator":
		return Initiator, nil
	case "receiver":
		return Receiver, nil
	default:
		return 0, fmt.Errorf("%w: %q", errors.ErrUnknownRole, s)
	}
}

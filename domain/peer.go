package domain

// ActionKind tells the driving worker what to do after a receive.
type ActionKind int

const (
	// ActionReply sends Action.Payload back to the opponent.
	ActionReply ActionKind = iota
	// ActionIssueStop sends the stop signal; the peer is already stopped.
	ActionIssueStop
	// ActionHalt ends the loop without sending anything.
	ActionHalt
)

type Action struct {
	Kind    ActionKind
	Payload string
}

// PeerStats is a snapshot of a peer's counters.
type PeerStats struct {
	Role          Role
	SentCount     int
	ReceivedCount int
	Running       bool
}

// Peer holds the protocol state of one endpoint. It performs no I/O:
// the owning worker feeds it inbound messages and executes the returned
// Action. Counters are only touched from the owning worker's goroutine.
type Peer struct {
	role          Role
	totalMessages int
	sentCount     int
	receivedCount int
	replies       int
	running       bool
	forward       bool
}

type PeerOption func(*Peer)

// WithForwarding makes the peer send each inbound message back unchanged
// instead of appending its reply ordinal. The connecting side of the
// socket binding plays this way.
func WithForwarding() PeerOption {
	return func(p *Peer) {
		p.forward = true
	}
}

func NewPeer(role Role, totalMessages int, opts ...PeerOption) *Peer {
	p := &Peer{
		role:          role,
		totalMessages: totalMessages,
		running:       true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Peer) Role() Role {
	return p.role
}

func (p *Peer) Running() bool {
	return p.running
}

// Sent records an outbound message. The stop signal is not counted.
func (p *Peer) Sent(msg string) {
	if IsStop(msg) {
		return
	}
	p.sentCount++
}

// Receive applies the reply rule to one inbound message.
//
// The reply embeds its own ordinal: the first reply a peer sends carries 1,
// the second 2, and so on. For the Receiver this equals sentCount after the
// reply is counted; for the Initiator the seed is a send but not a reply.
func (p *Peer) Receive(msg string) Action {
	if !p.running {
		return Action{Kind: ActionHalt}
	}
	p.receivedCount++

	if IsStop(msg) {
		p.running = false
		return Action{Kind: ActionHalt}
	}

	if p.role.OwnsTermination() && p.receivedCount == p.totalMessages {
		p.running = false
		return Action{Kind: ActionIssueStop, Payload: StopSignal}
	}

	p.replies++
	if p.forward {
		return Action{Kind: ActionReply, Payload: msg}
	}
	return Action{Kind: ActionReply, Payload: Reply(msg, p.replies)}
}

// Interrupt stops the peer after an external cancellation. The opponent is
// not told; it may stay blocked until its own context ends.
func (p *Peer) Interrupt() {
	p.running = false
}

// Stats must not race with an active loop; read it once the worker returned.
func (p *Peer) Stats() PeerStats {
	return PeerStats{
		Role:          p.role,
		SentCount:     p.sentCount,
		ReceivedCount: p.receivedCount,
		Running:       p.running,
	}
}

package runtime

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain"
	"exchange-lab/errors"
	"exchange-lab/runtime/workers"
	"exchange-lab/sink"
	"exchange-lab/transport"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Timeouts bound the blocking phases the coordinator owns.
type Timeouts struct {
	Exchange        time.Duration
	Dial            time.Duration
	RestartInterval time.Duration
}

// Coordinator wires peers to a transport, opens the exchange with the seed
// and waits for it to end. It owns the peers; peers only hold their
// transport endpoint.
type Coordinator struct {
	log      *slog.Logger
	config   domain.ExchangeConfig
	timeouts Timeouts
	sinks    []contract.EventSink
}

func NewCoordinator(log *slog.Logger, config domain.ExchangeConfig, timeouts Timeouts, sinks ...contract.EventSink) *Coordinator {
	return &Coordinator{
		log:      log,
		config:   config,
		timeouts: timeouts,
		sinks:    sinks,
	}
}

// RunLocal plays both roles in this process, each peer in its own goroutine
// linked by an in-memory pipe.
func (c *Coordinator) RunLocal(ctx context.Context) (domain.Result, error) {
	start := time.Now()
	exchange := domain.NewExchangeID()
	tracker := NewStateTracker(c.log, domain.Initiator, domain.Receiver)
	events := c.events(tracker)

	initiatorEnd, receiverEnd := transport.NewPipe()
	defer initiatorEnd.Close()
	defer receiverEnd.Close()

	initiator := workers.NewPeerWorker(c.log, exchange,
		domain.NewPeer(domain.Initiator, c.config.TotalMessages), initiatorEnd, events)
	receiver := workers.NewPeerWorker(c.log, exchange,
		domain.NewPeer(domain.Receiver, c.config.TotalMessages), receiverEnd, events)

	initiator.Open(domain.SeedMessage)
	sup := workers.NewSupervisor(c.log, events, c.timeouts.RestartInterval)
	sup.Add(initiator, receiver)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		sup.Run(runCtx)
		close(finished)
	}()

	c.log.Info("Exchange started", "exchange", exchange, "total_messages", c.config.TotalMessages)

	timer := time.NewTimer(c.timeouts.Exchange)
	defer timer.Stop()

	var runErr error
	select {
	case <-initiator.Done():
	case <-ctx.Done():
		runErr = ctx.Err()
	case <-timer.C:
		runErr = errors.ErrExchangeTimeout
	}

	if runErr == nil {
		// The receiver still has the stop signal to consume.
		select {
		case <-finished:
		case <-ctx.Done():
			runErr = ctx.Err()
		case <-timer.C:
			runErr = errors.ErrExchangeTimeout
		}
	}
	if runErr != nil {
		c.log.Warn("Exchange aborted", "exchange", exchange, "error", runErr)
		cancel()
	}
	<-finished

	result := domain.Result{
		ExchangeID: exchange,
		State:      tracker.State(),
		Initiator:  lo.ToPtr(initiator.Stats()),
		Receiver:   lo.ToPtr(receiver.Stats()),
		Outcomes: map[domain.Role]string{
			domain.Initiator: string(initiator.Reason()),
			domain.Receiver:  string(receiver.Reason()),
		},
		Duration: time.Since(start),
	}
	if runErr != nil {
		return result, runErr
	}
	if failures := sup.Failures(); len(failures) > 0 {
		name := lo.Min(lo.Keys(failures))
		return result, fmt.Errorf("peer %s failed: %w", name, failures[name])
	}

	c.log.Info("Exchange complete", "exchange", exchange, "state", result.State, "duration", result.Duration)
	return result, nil
}

// RunInitiator is the connecting side of the cross-process binding. The
// loop runs in the calling goroutine: send, wait for the paired reply,
// check the limit, send the reply on unchanged.
func (c *Coordinator) RunInitiator(ctx context.Context) (domain.Result, error) {
	address := c.config.Address()
	conn, err := transport.Dial(ctx, address, c.timeouts.Dial)
	if err != nil {
		return domain.Result{}, err
	}
	defer conn.Close()
	c.log.Info("Connected to receiver", "address", conn.RemoteAddr().String())

	return c.drive(ctx, domain.Initiator, conn)
}

// RunReceiver is the listening side of the cross-process binding.
func (c *Coordinator) RunReceiver(ctx context.Context) (domain.Result, error) {
	ln, err := c.Listen(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	return c.Serve(ctx, ln)
}

// Listen binds the configured port without accepting yet.
func (c *Coordinator) Listen(ctx context.Context) (*transport.Listener, error) {
	ln, err := transport.Listen(ctx, c.config.ListenAddress())
	if err != nil {
		return nil, err
	}
	c.log.Info("Waiting for the initiator", "address", ln.Addr().String())
	return ln, nil
}

// Serve accepts exactly one connection on ln and plays the Receiver on it.
func (c *Coordinator) Serve(ctx context.Context, ln *transport.Listener) (domain.Result, error) {
	conn, err := ln.AcceptOne(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	defer conn.Close()
	c.log.Info("Initiator connected", "remote", conn.RemoteAddr().String())

	return c.drive(ctx, domain.Receiver, conn)
}

func (c *Coordinator) drive(ctx context.Context, role domain.Role, conn contract.Transport) (domain.Result, error) {
	start := time.Now()
	exchange := domain.NewExchangeID()
	tracker := NewStateTracker(c.log, role)

	// The connecting side sends each reply on as it came.
	var opts []domain.PeerOption
	if role == domain.Initiator {
		opts = append(opts, domain.WithForwarding())
	}
	worker := workers.NewPeerWorker(c.log, exchange,
		domain.NewPeer(role, c.config.TotalMessages, opts...), conn, c.events(tracker))
	if role == domain.Initiator {
		worker.Open(domain.SeedMessage)
	}
	err := worker.Run(ctx)

	stats := worker.Stats()
	result := domain.Result{
		ExchangeID: exchange,
		State:      tracker.State(),
		Outcomes:   map[domain.Role]string{role: string(worker.Reason())},
		Duration:   time.Since(start),
	}
	if role == domain.Initiator {
		result.Initiator = &stats
	} else {
		result.Receiver = &stats
	}
	c.log.Info("Shutting down", "role", role.String(), "state", result.State, "reason", worker.Reason())
	return result, err
}

func (c *Coordinator) events(tracker *StateTracker) contract.EventSink {
	return sink.NewMulti(c.log, append([]contract.EventSink{tracker}, c.sinks...)...)
}

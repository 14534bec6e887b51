package transport

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/errors"
	"sync"
)

var _ contract.Transport = (*QueueEndpoint)(nil)

// Queue is an unbounded FIFO of text messages.
// Push never blocks; Pop blocks until an item, a close or a cancellation.
type Queue struct {
	mu     sync.Mutex
	items  []string
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (q *Queue) Push(msg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errors.ErrTransportClosed
	}
	q.items = append(q.items, msg)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Pop returns the oldest item. Items pushed before Close are still
// delivered; once drained, a closed queue reports errors.ErrStreamClosed.
func (q *Queue) Pop(ctx context.Context) (string, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items[0] = ""
			q.items = q.items[1:]
			q.mu.Unlock()
			return msg, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return "", errors.ErrStreamClosed
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-q.ready:
		case <-q.done:
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// QueueEndpoint is one side of an in-process pipe.
type QueueEndpoint struct {
	inbox  *Queue
	outbox *Queue
}

// NewPipe links two endpoints crosswise: what one sends, the other receives.
func NewPipe() (*QueueEndpoint, *QueueEndpoint) {
	aToB, bToA := NewQueue(), NewQueue()
	return &QueueEndpoint{inbox: bToA, outbox: aToB},
		&QueueEndpoint{inbox: aToB, outbox: bToA}
}

// Send enqueues without waiting for the opponent.
func (e *QueueEndpoint) Send(_ context.Context, msg string) error {
	return e.outbox.Push(msg)
}

func (e *QueueEndpoint) Receive(ctx context.Context) (string, error) {
	return e.inbox.Pop(ctx)
}

// Close ends the outbound direction; the opponent drains what is queued
// and then sees end-of-stream.
func (e *QueueEndpoint) Close() error {
	e.outbox.Close()
	return nil
}

// Pending is the number of messages waiting in this endpoint's inbox.
func (e *QueueEndpoint) Pending() int {
	return e.inbox.Len()
}

package transport

import (
	"context"
	"exchange-lab/errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_PreservesOrder(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		req.NoError(q.Push(fmt.Sprintf("msg-%d", i)))
	}
	req.Equal(100, q.Len())

	for i := 0; i < 100; i++ {
		msg, err := q.Pop(ctx)
		req.NoError(err)
		req.Equal(fmt.Sprintf("msg-%d", i), msg)
	}
	req.Zero(q.Len())
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	req := require.New(t)
	q := NewQueue()

	got := make(chan string, 1)
	go func() {
		msg, err := q.Pop(context.Background())
		if err == nil {
			got <- msg
		}
	}()

	// Given nobody pushed yet, Pop keeps waiting
	select {
	case <-got:
		req.Fail("Pop returned before any push")
	case <-time.After(50 * time.Millisecond):
	}

	req.NoError(q.Push("hello"))

	select {
	case msg := <-got:
		req.Equal("hello", msg)
	case <-time.After(time.Second):
		req.Fail("Pop did not wake up after push")
	}
}

func TestQueue_PopHonoursCancellation(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
}

func TestQueue_CloseDrainsThenReportsEndOfStream(t *testing.T) {
	req := require.New(t)
	q := NewQueue()
	ctx := context.Background()

	req.NoError(q.Push("last"))
	q.Close()
	q.Close()

	req.ErrorIs(q.Push("too late"), errors.ErrTransportClosed)

	msg, err := q.Pop(ctx)
	req.NoError(err)
	req.Equal("last", msg)

	_, err = q.Pop(ctx)
	req.ErrorIs(err, errors.ErrStreamClosed)
}

func TestQueue_CloseWakesBlockedPop(t *testing.T) {
	req := require.New(t)
	q := NewQueue()

	errChan := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		errChan <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-errChan:
		req.ErrorIs(err, errors.ErrStreamClosed)
	case <-time.After(time.Second):
		req.Fail("blocked Pop was not released by Close")
	}
}

func TestPipe_IsCrosswise(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a, b := NewPipe()

	req.NoError(a.Send(ctx, "from a"))
	req.NoError(b.Send(ctx, "from b"))
	req.Equal(1, a.Pending())
	req.Equal(1, b.Pending())

	msg, err := b.Receive(ctx)
	req.NoError(err)
	req.Equal("from a", msg)

	msg, err = a.Receive(ctx)
	req.NoError(err)
	req.Equal("from b", msg)
}

func TestPipe_CloseEndsOpponentStream(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	a, b := NewPipe()

	req.NoError(a.Send(ctx, "bye"))
	req.NoError(a.Close())

	msg, err := b.Receive(ctx)
	req.NoError(err)
	req.Equal("bye", msg)

	_, err = b.Receive(ctx)
	req.ErrorIs(err, errors.ErrStreamClosed)
}

package transport

import (
	"bufio"
	"context"
	"exchange-lab/contract"
	"exchange-lab/errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"
)

var _ contract.Transport = (*LineConn)(nil)

// LineConn frames messages as newline-terminated lines over a stream.
type LineConn struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
	writer *bufio.Writer
}

func NewLineConn(conn net.Conn) *LineConn {
	return &LineConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}
}

// Send writes one line and flushes it immediately.
func (c *LineConn) Send(ctx context.Context, msg string) error {
	if strings.ContainsAny(msg, "\r\n") {
		return fmt.Errorf("%w: %q", errors.ErrInvalidPayload, msg)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := c.writer.WriteString(msg + "\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("flush line: %w", err)
	}
	return nil
}

// Receive blocks until a full line is read. End-of-stream is reported as
// errors.ErrStreamClosed; cancellation unblocks the read and returns ctx.Err().
func (c *LineConn) Receive(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Unix(1, 0))
		close(fired)
	})
	// The connection stays readable after a cancelled Receive.
	defer func() {
		if !stop() {
			<-fired
			_ = c.conn.SetReadDeadline(time.Time{})
		}
	}()

	line, err := c.reader.ReadString('\n')
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if isEndOfStream(err) {
			return "", errors.ErrStreamClosed
		}
		return "", fmt.Errorf("read line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *LineConn) Close() error {
	return c.conn.Close()
}

func (c *LineConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// A partial line followed by EOF is a truncated message, not data.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrClosedPipe)
}

// Listener binds the listening side and hands out exactly one connection.
type Listener struct {
	ln net.Listener
}

func Listen(ctx context.Context, address string) (*Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: listen on %s: %v", errors.ErrConnectivity, address, err)
	}
	return &Listener{ln: ln}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// AcceptOne waits for the first connection and stops listening.
func (l *Listener) AcceptOne(ctx context.Context) (*LineConn, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = l.ln.Close()
	})
	defer stop()
	defer l.ln.Close()

	conn, err := l.ln.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: accept: %v", errors.ErrConnectivity, err)
	}
	return NewLineConn(conn), nil
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

// Dial connects once; connectivity failures are not retried.
func Dial(ctx context.Context, address string, timeout time.Duration) (*LineConn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: dial %s: %v", errors.ErrConnectivity, address, err)
	}
	return NewLineConn(conn), nil
}

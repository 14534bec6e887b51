package e2e

import (
	"context"
	"exchange-lab/contract"
	"exchange-lab/domain"
	"exchange-lab/runtime"
	"exchange-lab/transport"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseExchangeSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseExchangeSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseExchangeSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

func (s *BaseExchangeSuite) Logger() *slog.Logger {
	if s.Config.Debug {
		return logs.GetLoggerFromLevel(slog.LevelDebug)
	}
	return logs.GetLoggerFromLevel(slog.LevelWarn)
}

func (s *BaseExchangeSuite) Coordinator(port int, sinks ...contract.EventSink) *runtime.Coordinator {
	return s.CoordinatorOf(s.Config.Messages, port, sinks...)
}

// CoordinatorOf is Coordinator with an explicit exchange length.
func (s *BaseExchangeSuite) CoordinatorOf(total, port int, sinks ...contract.EventSink) *runtime.Coordinator {
	config := domain.ExchangeConfig{TotalMessages: total, Host: s.Config.Host, Port: port}
	timeouts := runtime.Timeouts{Exchange: 30 * time.Second, Dial: 5 * time.Second, RestartInterval: 50 * time.Millisecond}
	return runtime.NewCoordinator(s.Logger(), config, timeouts, sinks...)
}

type served struct {
	result domain.Result
	err    error
}

// WithReceiver binds an ephemeral loopback port, serves one receiver on it
// and hands its port to fn. It returns what the receiver ended with.
func (s *BaseExchangeSuite) WithReceiver(name string, sinks []contract.EventSink, fn func(ctx context.Context, port int)) (domain.Result, error) {
	s.Step(name)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ln, err := transport.Listen(ctx, net.JoinHostPort(s.Config.Host, "0"))
	s.Require().NoError(err)

	_, rawPort, err := net.SplitHostPort(ln.Addr().String())
	s.Require().NoError(err)
	port, err := strconv.Atoi(rawPort)
	s.Require().NoError(err)

	done := make(chan served, 1)
	go func() {
		result, err := s.Coordinator(port, sinks...).Serve(ctx, ln)
		done <- served{result: result, err: err}
	}()

	fn(ctx, port)

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		s.FailNow("receiver did not finish")
		return domain.Result{}, ctx.Err()
	}
}

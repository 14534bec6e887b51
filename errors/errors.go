package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrUnknownRole       = fmt.Errorf("unknown role")
	ErrConnectivity      = fmt.Errorf("connectivity failure")
	ErrStreamClosed      = fmt.Errorf("stream closed by opponent")
	ErrTransportClosed   = fmt.Errorf("transport closed")
	ErrInvalidPayload    = fmt.Errorf("payload contains a line terminator")
	ErrInvalidTransition = fmt.Errorf("invalid exchange state transition")
	ErrExchangeTimeout   = fmt.Errorf("exchange did not complete in time")
	ErrInvalidConfig     = fmt.Errorf("invalid configuration")
)

// Is and As let callers match sentinels without importing both error packages.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

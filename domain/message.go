package domain

import "strconv"

const (
	// StopSignal is reserved: a line equal to it is never application data.
	StopSignal = "STOP"
	// SeedMessage opens every exchange.
	SeedMessage = "START"
)

func IsStop(msg string) bool {
	return msg == StopSignal
}

// Reply appends the reply ordinal to the received payload.
func Reply(msg string, ordinal int) string {
	return msg + " " + strconv.Itoa(ordinal)
}

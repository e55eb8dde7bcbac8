package bulb

import "errors"

var (
	// ErrNotConnected indicates an operation was attempted on a client
	// that has not completed Connect.
	ErrNotConnected = errors.New("not connected to bulb")

	// ErrTimeout indicates no reply arrived within the configured window.
	ErrTimeout = errors.New("command timed out")

	// ErrClosed indicates the client was closed while the command was in flight.
	ErrClosed = errors.New("client closed")

	// ErrDuplicateCommandID indicates a caller-supplied correlation id
	// collides with a command that is still awaiting a reply.
	ErrDuplicateCommandID = errors.New("command id already in flight")

	// ErrValidation indicates a parameter was rejected before any network I/O.
	ErrValidation = errors.New("invalid parameter")
)

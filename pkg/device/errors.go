package device

import "errors"

var (
	// ErrUnknownDevice indicates the registry was given an unregistered
	// device type.
	ErrUnknownDevice = errors.New("unknown device type")

	// ErrUnknownCommand indicates an adapter does not recognize a command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrOffline indicates the adapter is marked unreachable.
	ErrOffline = errors.New("device offline")

	// ErrTimeout indicates a command exceeded its execution deadline.
	ErrTimeout = errors.New("command timed out")

	// ErrValidation indicates an out-of-range or malformed parameter.
	ErrValidation = errors.New("invalid parameter")

	// ErrNotAllowed indicates the command makes no sense in the device's
	// current state (e.g. pausing a vacuum that is not cleaning).
	ErrNotAllowed = errors.New("command not allowed in current state")
)

// isDeviceFault reports whether an execute error means the wire is bad
// (mark offline) as opposed to a logical rejection the device itself
// produced.
func isDeviceFault(err error) bool {
	return !errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrNotAllowed) &&
		!errors.Is(err, ErrUnknownCommand)
}

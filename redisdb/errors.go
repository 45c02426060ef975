package redisdb

import (
	"errors"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

var _ error = (*Error)(nil)

// ErrInvalidOptions is returned when publisher options cannot be parsed or fail validation.
var ErrInvalidOptions = errors.New("invalid publisher options")

// ErrorName represents the name of an error.
type ErrorName string

const (
	// InvalidOptionsError is emitted when the options object is malformed or holds invalid values.
	InvalidOptionsError ErrorName = "InvalidOptionsError"

	// UnknownCommandError is emitted when the command is not one of
	// get, keys, set, getset, setex or setnx.
	UnknownCommandError ErrorName = "UnknownCommandError"

	// MissingArgumentError is emitted when a command lacks its key or value.
	MissingArgumentError ErrorName = "MissingArgumentError"

	// InvalidTTLError is emitted when setex is configured without a usable ttl.
	InvalidTTLError ErrorName = "InvalidTTLError"

	// ConnectionError is emitted when the store cannot be reached.
	ConnectionError ErrorName = "ConnectionError"

	// CommandError is emitted when the store rejects the command or the call fails.
	CommandError ErrorName = "CommandError"

	// HookError is logged when the onCommandExecuted hook throws.
	HookError ErrorName = "HookError"
)

// Error represents a custom error emitted by the redisdb module.
type Error struct {
	// Name contains one of the strings associated with an error name.
	Name ErrorName `js:"name"`

	// Message represents message or description associated with the given error name.
	Message string `js:"message"`

	// cause is the Go error the JS-facing error was built from.
	cause error
}

// NewError returns a new Error instance.
func NewError(name ErrorName, message string) *Error {
	return &Error{
		Name:    name,
		Message: message,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Name) + ": " + e.Message
}

// Unwrap returns the underlying Go error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// classifyError converts internal Go errors to structured redisdb errors for JS.
// The original error stays reachable through errors.Is/As.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var redisdbErr *Error
	if errors.As(err, &redisdbErr) {
		return redisdbErr
	}

	var name ErrorName

	switch {
	case errors.Is(err, command.ErrConnectionFailed):
		name = ConnectionError
	case errors.Is(err, command.ErrCommandFailed):
		name = CommandError
	case errors.Is(err, command.ErrUnknownCommand):
		name = UnknownCommandError
	case errors.Is(err, command.ErrMissingArgument):
		name = MissingArgumentError
	case errors.Is(err, command.ErrInvalidTTL):
		name = InvalidTTLError
	case errors.Is(err, ErrInvalidOptions),
		errors.Is(err, command.ErrInvalidConnectionConfig),
		errors.Is(err, command.ErrNilCommand):
		name = InvalidOptionsError
	default:
		return err
	}

	return &Error{
		Name:    name,
		Message: err.Error(),
		cause:   err,
	}
}

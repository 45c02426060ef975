package command

import "errors"

var (
	// ErrUnknownCommand is returned when a command name is outside the supported set.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMissingArgument is returned when a command is built without a required argument.
	ErrMissingArgument = errors.New("missing command argument")
	// ErrInvalidTTL is returned when a setex TTL is absent or shorter than one second.
	ErrInvalidTTL = errors.New("invalid ttl")
	// ErrInvalidConnectionConfig indicates the connection settings cannot be turned into client options.
	ErrInvalidConnectionConfig = errors.New("invalid connection config")
	// ErrConnectionFailed indicates the client could not establish a connection to the store.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrCommandFailed indicates the store rejected the command or the call failed after connecting.
	ErrCommandFailed = errors.New("command failed")
	// ErrNilCommand is returned when a request carries no command.
	ErrNilCommand = errors.New("request has no command")
)

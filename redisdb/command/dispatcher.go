package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Connection is a store client owned by a single dispatch.
type Connection interface {
	Client

	// Close releases the underlying network connection.
	Close() error
}

// Connector opens a Connection for the given client options.
type Connector func(opts *redis.Options) Connection

// Request is one command plus the settings of the connection it runs on.
type Request struct {
	// Command is the variant to run.
	Command Command

	// Connection holds the connection settings; nil means defaults.
	Connection *ConnectionConfig
}

// Result is the outcome of a successful dispatch.
type Result struct {
	// Command is the name of the command that produced the reply.
	Command Name

	// Reply is the literal store reply (string, []string, bool or nil).
	Reply any

	// Duration is the wall time of the client call, connection setup included.
	Duration time.Duration
}

// Dispatcher runs one command per request on a connection of its own.
// It holds no per-request state, so a single Dispatcher may serve
// concurrent requests.
type Dispatcher struct {
	connect Connector
	logger  logrus.FieldLogger
}

// NewDispatcher returns a Dispatcher that connects with go-redis.
func NewDispatcher(logger logrus.FieldLogger) *Dispatcher {
	return NewDispatcherWithConnector(Connect, logger)
}

// NewDispatcherWithConnector returns a Dispatcher using a custom Connector.
func NewDispatcherWithConnector(connect Connector, logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Dispatcher{
		connect: connect,
		logger:  logger,
	}
}

// WithLogger returns a copy of d that logs to logger.
func (d *Dispatcher) WithLogger(logger logrus.FieldLogger) *Dispatcher {
	if logger == nil {
		return d
	}

	return &Dispatcher{
		connect: d.connect,
		logger:  logger,
	}
}

// Dispatch opens a connection, runs req.Command once and closes the connection.
//
// Errors wrap either ErrConnectionFailed (the store could not be reached,
// or the connection handshake with AUTH, HELLO or SELECT failed) or
// ErrCommandFailed (anything after that), always keeping the original
// error in the chain. Nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	if req.Command == nil {
		return Result{}, ErrNilCommand
	}

	result := Result{Command: req.Command.Name()}

	opts, err := req.Connection.ToRedisOptions()
	if err != nil {
		return result, err
	}

	logger := d.logger.WithFields(logrus.Fields{
		"command": result.Command,
		"addr":    opts.Addr,
	})

	// go-redis calls OnConnect once the handshake succeeded.
	var handshakeDone atomic.Bool

	opts.OnConnect = func(context.Context, *redis.Conn) error {
		handshakeDone.Store(true)

		return nil
	}

	conn := d.connect(opts)
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close redis connection")
		}
	}()

	logger.Debug("Dispatching redis command")

	started := time.Now()
	reply, err := req.Command.Execute(ctx, conn)
	result.Duration = time.Since(started)

	if err != nil {
		return result, classifyFailure(err, handshakeDone.Load())
	}

	result.Reply = reply

	return result, nil
}

// classifyFailure tags err as a connection failure when the dial hook
// already marked it or the handshake never completed, and as a command
// failure otherwise.
func classifyFailure(err error, handshakeDone bool) error {
	if errors.Is(err, ErrConnectionFailed) {
		return err
	}

	if !handshakeDone {
		return fmt.Errorf("%w: handshake: %w", ErrConnectionFailed, err)
	}

	return fmt.Errorf("%w: %w", ErrCommandFailed, err)
}

// Connect opens a go-redis client whose dial failures carry ErrConnectionFailed.
func Connect(opts *redis.Options) Connection {
	client := redis.NewClient(opts)
	client.AddHook(connectionHook{})

	return client
}

// connectionHook marks dial errors so they can be told apart from command errors.
type connectionHook struct{}

var _ redis.Hook = connectionHook{}

// DialHook implements redis.Hook.
func (connectionHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", ErrConnectionFailed, network, addr, err)
		}

		return conn, nil
	}
}

// ProcessHook implements redis.Hook.
func (connectionHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

// ProcessPipelineHook implements redis.Hook.
func (connectionHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

package redisdb

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/grafana/sobek"
	"github.com/sirupsen/logrus"
	"go.k6.io/k6/js/modules"
	"go.k6.io/k6/lib"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

// Publisher is the JavaScript-facing command publisher.
//
// A Publisher is immutable once built: every publish() call is an
// independent invocation with its own connection, its own Promise and at
// most one hook call.
//
// Threading model:
//
//   - The blocking store call runs in a goroutine (off the VU event loop).
//   - The hook call, the Go to JS conversion and the Promise settlement all run
//     on the event loop, queued through VU.RegisterCallback.
type Publisher struct {
	// vu is the owning k6 VU that provides the Sobek runtime and event loop.
	vu modules.VU

	// request is the validated command and connection config.
	request command.Request

	// onCommandExecuted is the optional success hook.
	onCommandExecuted sobek.Callable

	dispatcher *command.Dispatcher
	metrics    *commandMetrics
}

// Publish returns a Promise that resolves to { result: reply }.
//
// Rejection cases:
//   - The store cannot be reached (ConnectionError).
//   - The store rejects the command (CommandError).
//
// On success the onCommandExecuted hook fires exactly once, with the object
// the Promise resolves to, before the Promise resolves.
func (p *Publisher) Publish() *sobek.Promise {
	// Everything touching the runtime or the VU is captured here, on the event loop.
	var (
		rt      = p.vu.Runtime()
		ctx     = p.vu.Context()
		state   = p.vu.State()
		logger  = p.logger(state)
		name    = p.request.Command.Name()
		request = p.request
	)

	promise, resolve, reject := rt.NewPromise()
	callback := p.vu.RegisterCallback()

	go func() {
		result, err := p.dispatcher.WithLogger(logger).Dispatch(ctx, request)
		p.metrics.push(ctx, state, name, result.Duration, err != nil)

		if err != nil {
			logger.WithError(err).Errorf("Error running redis %s command", name)

			callback(func() error {
				return reject(classifyError(err))
			})

			return
		}

		logger.WithFields(logrus.Fields{
			"took":  result.Duration,
			"reply": describeReply(result.Reply),
		}).Info("Redis command executed")

		callback(func() error {
			payload := rt.ToValue(map[string]any{"result": result.Reply})
			p.fireHook(payload, logger)

			return resolve(payload)
		})
	}()

	return promise
}

// fireHook calls the onCommandExecuted hook, if any. A throwing hook is
// logged and does not change the outcome.
func (p *Publisher) fireHook(payload sobek.Value, logger logrus.FieldLogger) {
	if p.onCommandExecuted == nil {
		return
	}

	if _, err := p.onCommandExecuted(sobek.Undefined(), payload); err != nil {
		logger.WithError(NewError(HookError, err.Error())).
			Errorf("%s hook failed", HookOnCommandExecuted)
	}
}

// logger returns the invocation logger, tagged with a fresh correlation id.
func (p *Publisher) logger(state *lib.State) logrus.FieldLogger {
	var logger logrus.FieldLogger = logrus.StandardLogger()

	switch {
	case state != nil && state.Logger != nil:
		logger = state.Logger
	case p.vu.InitEnv() != nil && p.vu.InitEnv().Logger != nil:
		logger = p.vu.InitEnv().Logger
	}

	return logger.WithFields(logrus.Fields{
		"module":     "redisdb",
		"command":    p.request.Command.Name(),
		"invocation": uuid.NewString(),
	})
}

// describeReply summarizes a reply for logs without dumping its content.
func describeReply(reply any) string {
	switch r := reply.(type) {
	case nil:
		return "nil"
	case string:
		return humanize.IBytes(uint64(len(r)))
	case []string:
		return humanize.Comma(int64(len(r))) + " keys"
	case bool:
		if r {
			return "true"
		}

		return "false"
	default:
		return "unknown"
	}
}

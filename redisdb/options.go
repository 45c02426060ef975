package redisdb

import (
	"fmt"
	"time"

	"github.com/grafana/sobek"
	"go.k6.io/k6/js/common"
	"go.k6.io/k6/js/modules"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

// HookOnCommandExecuted is the option name of the success hook.
const HookOnCommandExecuted = "onCommandExecuted"

// PublisherOptions describes one command publication.
type PublisherOptions struct {
	// Command is one of get, keys, set, getset, setex, setnx (case-insensitive).
	// Defaults to get.
	Command string `js:"command"`

	// Key is the lookup key for every command but keys.
	Key *string `js:"key"`

	// Value is the payload of set, getset, setex and setnx.
	Value *string `js:"value"`

	// Pattern is the glob pattern of keys. Defaults to "*".
	Pattern *string `js:"pattern"`

	// TTL is the setex expiration, at least one second.
	//
	// Accepted types:
	//   - number: milliseconds.
	//   - string: Go duration, e.g. "10s", "1m".
	TTL any `js:"ttl"`

	// Connection holds the client settings, passed as "options" like the
	// node-redis createClient options.
	Connection *ConnectionOptions `js:"options"`
}

// NewPublisherOptionsFrom converts a Sobek (JS) value into PublisherOptions.
// The hook is not part of the result; see importHook.
func NewPublisherOptionsFrom(vu modules.VU, options sobek.Value) (PublisherOptions, error) {
	var opts PublisherOptions

	if common.IsNullish(options) {
		return opts, fmt.Errorf("%w: options object is required", ErrInvalidOptions)
	}

	if err := vu.Runtime().ExportTo(options, &opts); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return opts, nil
}

// ToRequest validates the options and maps them onto a command variant and
// connection config. It's intentionally strict to fail fast on invalid
// configs, before any connection is attempted.
func (o PublisherOptions) ToRequest() (command.Request, error) {
	name, err := command.ParseName(o.Command)
	if err != nil {
		return command.Request{}, err
	}

	var ttl time.Duration

	if o.TTL != nil {
		if name != command.NameSetEX {
			return command.Request{}, fmt.Errorf("%w: ttl is only used by %q", ErrInvalidOptions, command.NameSetEX)
		}

		ttl, err = parseDurationValue(o.TTL)
		if err != nil {
			return command.Request{}, fmt.Errorf("%w: ttl: %w", command.ErrInvalidTTL, err)
		}
	}

	cmd, err := command.New(name, command.Arguments{
		Key:     o.Key,
		Value:   o.Value,
		Pattern: o.Pattern,
		TTL:     ttl,
	})
	if err != nil {
		return command.Request{}, err
	}

	connection, err := o.Connection.ToConnectionConfig()
	if err != nil {
		return command.Request{}, err
	}

	return command.Request{
		Command:    cmd,
		Connection: connection,
	}, nil
}

// importHook reads the optional onCommandExecuted function from the options object.
func importHook(rt *sobek.Runtime, options sobek.Value) (sobek.Callable, error) {
	hookValue := options.ToObject(rt).Get(HookOnCommandExecuted)
	if common.IsNullish(hookValue) {
		//nolint:nilnil // the hook is optional.
		return nil, nil
	}

	hook, ok := sobek.AssertFunction(hookValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a function", ErrInvalidOptions, HookOnCommandExecuted)
	}

	return hook, nil
}

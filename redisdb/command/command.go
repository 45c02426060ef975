package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Name identifies one of the supported commands.
type Name string

const (
	// NameGet reads the value stored under a key.
	NameGet Name = "get"
	// NameKeys lists the keys matching a glob-style pattern.
	NameKeys Name = "keys"
	// NameSet stores a value under a key.
	NameSet Name = "set"
	// NameGetSet stores a value under a key and returns the previous one.
	NameGetSet Name = "getset"
	// NameSetEX stores a value under a key with an expiration.
	NameSetEX Name = "setex"
	// NameSetNX stores a value under a key only if the key is absent.
	NameSetNX Name = "setnx"

	// DefaultName is used when no command is configured.
	DefaultName = NameGet

	// DefaultPattern is used by keys when no pattern is configured.
	DefaultPattern = "*"

	// MinTTL is the smallest expiration SETEX accepts. TTLs must also be
	// whole seconds.
	MinTTL = time.Second
)

// Names returns the supported command names in a stable order.
func Names() []Name {
	return []Name{NameGet, NameKeys, NameSet, NameGetSet, NameSetEX, NameSetNX}
}

// ParseName resolves a user-provided command name. Matching ignores case and
// surrounding whitespace; an empty string resolves to DefaultName.
func ParseName(raw string) (Name, error) {
	normalized := Name(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return DefaultName, nil
	}

	for _, name := range Names() {
		if name == normalized {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %q; valid values are: %q", ErrUnknownCommand, raw, Names())
}

// Client is the slice of the go-redis command surface the commands use.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetSet(ctx context.Context, key string, value any) *redis.StringCmd
	SetEx(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// Command is one of Get, Keys, Set, GetSet, SetEX or SetNX.
// Each variant issues exactly one client call.
type Command interface {
	// Name returns the command name the variant was built for.
	Name() Name

	// Execute issues the client call and returns the literal reply.
	Execute(ctx context.Context, client Client) (any, error)

	sealed()
}

type (
	// Get reads the value under Key. A missing key yields a nil reply.
	Get struct {
		Key string
	}

	// Keys lists the keys matching Pattern.
	Keys struct {
		Pattern string
	}

	// Set stores Value under Key and replies "OK".
	Set struct {
		Key   string
		Value string
	}

	// GetSet stores Value under Key and replies with the previous value (nil if absent).
	GetSet struct {
		Key   string
		Value string
	}

	// SetEX stores Value under Key with a TTL and replies "OK".
	SetEX struct {
		Key   string
		Value string
		TTL   time.Duration
	}

	// SetNX stores Value under Key if absent and replies whether it did.
	SetNX struct {
		Key   string
		Value string
	}
)

// Arguments carries the raw command fields as configured by the user.
// Nil pointers mean "not provided".
type Arguments struct {
	Key     *string
	Value   *string
	Pattern *string
	TTL     time.Duration
}

// New builds the command variant for name, checking that every argument the
// variant needs is present.
func New(name Name, args Arguments) (Command, error) {
	switch name {
	case NameGet:
		key, err := requireArgument(name, "key", args.Key)
		if err != nil {
			return nil, err
		}

		return Get{Key: key}, nil
	case NameKeys:
		pattern := DefaultPattern
		if args.Pattern != nil && *args.Pattern != "" {
			pattern = *args.Pattern
		}

		return Keys{Pattern: pattern}, nil
	case NameSet, NameGetSet, NameSetEX, NameSetNX:
		key, err := requireArgument(name, "key", args.Key)
		if err != nil {
			return nil, err
		}

		value, err := requireArgument(name, "value", args.Value)
		if err != nil {
			return nil, err
		}

		return newWrite(name, key, value, args.TTL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// newWrite builds one of the key/value variants.
func newWrite(name Name, key, value string, ttl time.Duration) (Command, error) {
	switch name {
	case NameSet:
		return Set{Key: key, Value: value}, nil
	case NameGetSet:
		return GetSet{Key: key, Value: value}, nil
	case NameSetNX:
		return SetNX{Key: key, Value: value}, nil
	case NameSetEX:
		if ttl < MinTTL {
			return nil, fmt.Errorf("%w: setex needs a ttl of at least %s, got %s", ErrInvalidTTL, MinTTL, ttl)
		}

		// SETEX takes whole seconds.
		if ttl%time.Second != 0 {
			return nil, fmt.Errorf("%w: setex needs a whole number of seconds, got %s", ErrInvalidTTL, ttl)
		}

		return SetEX{Key: key, Value: value, TTL: ttl}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func requireArgument(name Name, field string, value *string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%w: %s requires %q", ErrMissingArgument, name, field)
	}

	return *value, nil
}

// Name implements Command.
func (Get) Name() Name { return NameGet }

// Execute implements Command.
func (c Get) Execute(ctx context.Context, client Client) (any, error) {
	return optionalString(client.Get(ctx, c.Key).Result())
}

// Name implements Command.
func (Keys) Name() Name { return NameKeys }

// Execute implements Command.
func (c Keys) Execute(ctx context.Context, client Client) (any, error) {
	keys, err := client.Keys(ctx, c.Pattern).Result()
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// Name implements Command.
func (Set) Name() Name { return NameSet }

// Execute implements Command.
func (c Set) Execute(ctx context.Context, client Client) (any, error) {
	status, err := client.Set(ctx, c.Key, c.Value, 0).Result()
	if err != nil {
		return nil, err
	}

	return status, nil
}

// Name implements Command.
func (GetSet) Name() Name { return NameGetSet }

// Execute implements Command.
func (c GetSet) Execute(ctx context.Context, client Client) (any, error) {
	return optionalString(client.GetSet(ctx, c.Key, c.Value).Result())
}

// Name implements Command.
func (SetEX) Name() Name { return NameSetEX }

// Execute implements Command.
func (c SetEX) Execute(ctx context.Context, client Client) (any, error) {
	status, err := client.SetEx(ctx, c.Key, c.Value, c.TTL).Result()
	if err != nil {
		return nil, err
	}

	return status, nil
}

// Name implements Command.
func (SetNX) Name() Name { return NameSetNX }

// Execute implements Command.
func (c SetNX) Execute(ctx context.Context, client Client) (any, error) {
	stored, err := client.SetNX(ctx, c.Key, c.Value, 0).Result()
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (Get) sealed()    {}
func (Keys) sealed()   {}
func (Set) sealed()    {}
func (GetSet) sealed() {}
func (SetEX) sealed()  {}
func (SetNX) sealed()  {}

// optionalString turns a redis.Nil reply into a successful nil reply.
func optionalString(value string, err error) (any, error) {
	if errors.Is(err, redis.Nil) {
		//nolint:nilnil // a missing key is a successful empty reply.
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

package redisdb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classifyError(nil))

	testCases := []struct {
		err  error
		want ErrorName
	}{
		{err: fmt.Errorf("%w: tcp 127.0.0.1:1: refused", command.ErrConnectionFailed), want: ConnectionError},
		{err: fmt.Errorf("%w: WRONGTYPE", command.ErrCommandFailed), want: CommandError},
		{err: fmt.Errorf("%w: %q", command.ErrUnknownCommand, "del"), want: UnknownCommandError},
		{err: fmt.Errorf("%w: key", command.ErrMissingArgument), want: MissingArgumentError},
		{err: fmt.Errorf("%w: ttl", command.ErrInvalidTTL), want: InvalidTTLError},
		{err: fmt.Errorf("%w: port", command.ErrInvalidConnectionConfig), want: InvalidOptionsError},
		{err: fmt.Errorf("%w: options object is required", ErrInvalidOptions), want: InvalidOptionsError},
		{err: command.ErrNilCommand, want: InvalidOptionsError},
	}

	for _, tc := range testCases {
		classified := classifyError(tc.err)

		var redisdbErr *Error
		require.ErrorAs(t, classified, &redisdbErr, tc.err.Error())
		assert.Equal(t, tc.want, redisdbErr.Name, tc.err.Error())
		assert.Equal(t, tc.err.Error(), redisdbErr.Message)
		assert.ErrorIs(t, classified, tc.err, "the cause stays reachable")
	}
}

func TestClassifyErrorKeepsAlreadyClassified(t *testing.T) {
	t.Parallel()

	original := NewError(HookError, "boom")
	assert.Same(t, original, classifyError(fmt.Errorf("wrapped: %w", original)))

	unknown := errors.New("unexpected")
	assert.Same(t, unknown, classifyError(unknown))
}

func TestErrorMessageCarriesName(t *testing.T) {
	t.Parallel()

	err := NewError(CommandError, "WRONGTYPE Operation against a key holding the wrong kind of value")
	assert.Equal(t, "CommandError: WRONGTYPE Operation against a key holding the wrong kind of value", err.Error())
	assert.NoError(t, err.Unwrap())
}

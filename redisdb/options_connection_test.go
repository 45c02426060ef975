package redisdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

func TestConnectionOptionsToConnectionConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil options keep the default connection", func(t *testing.T) {
		t.Parallel()

		var options *ConnectionOptions

		cfg, err := options.ToConnectionConfig()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("every field is carried over", func(t *testing.T) {
		t.Parallel()

		db := 3
		options := &ConnectionOptions{
			URL:             "redis://cache:6379/0",
			Addr:            "cache:6380",
			Network:         "tcp",
			Username:        "k6",
			Password:        "secret",
			DB:              &db,
			ClientName:      "load-test",
			Protocol:        2,
			TLS:             true,
			DialTimeout:     int64(500),
			ReadTimeout:     "1s",
			WriteTimeout:    float64(1500),
			ReadBufferSize:  "16KiB",
			WriteBufferSize: int64(8192),
		}

		cfg, err := options.ToConnectionConfig()
		require.NoError(t, err)

		assert.Equal(t, &command.ConnectionConfig{
			URL:             "redis://cache:6379/0",
			Addr:            "cache:6380",
			Network:         "tcp",
			Username:        "k6",
			Password:        "secret",
			DB:              &db,
			ClientName:      "load-test",
			Protocol:        2,
			TLS:             true,
			DialTimeout:     500 * time.Millisecond,
			ReadTimeout:     time.Second,
			WriteTimeout:    1500 * time.Millisecond,
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 8192,
		}, cfg)

		db = 9
		assert.Equal(t, 3, *cfg.DB, "db is copied, not aliased")
	})

	t.Run("path selects a unix socket", func(t *testing.T) {
		t.Parallel()

		cfg, err := (&ConnectionOptions{Path: "/var/run/redis.sock", Host: "ignored"}).ToConnectionConfig()
		require.NoError(t, err)
		assert.Equal(t, "/var/run/redis.sock", cfg.Addr)
		assert.Equal(t, "unix", cfg.Network)

		opts, err := cfg.ToRedisOptions()
		require.NoError(t, err)
		assert.Equal(t, "unix", opts.Network)
		assert.Equal(t, "/var/run/redis.sock", opts.Addr)
	})

	t.Run("addr wins over path", func(t *testing.T) {
		t.Parallel()

		cfg, err := (&ConnectionOptions{Path: "/var/run/redis.sock", Addr: "cache:6379"}).ToConnectionConfig()
		require.NoError(t, err)
		assert.Equal(t, "cache:6379", cfg.Addr)
		assert.Empty(t, cfg.Network)
	})

	t.Run("path with a tcp network is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := (&ConnectionOptions{Path: "/var/run/redis.sock", Network: "tcp"}).ToConnectionConfig()
		require.ErrorIs(t, err, ErrInvalidOptions)
		assert.Contains(t, err.Error(), "options.path")
	})

	t.Run("invalid knobs name the option", func(t *testing.T) {
		t.Parallel()

		_, err := (&ConnectionOptions{DialTimeout: "forever"}).ToConnectionConfig()
		require.ErrorIs(t, err, ErrInvalidOptions)
		assert.Contains(t, err.Error(), "options.dialTimeout")

		_, err = (&ConnectionOptions{ReadBufferSize: -1}).ToConnectionConfig()
		require.ErrorIs(t, err, ErrInvalidOptions)
		assert.Contains(t, err.Error(), "options.readBufferSize")
	})

	t.Run("validation errors come from the config", func(t *testing.T) {
		t.Parallel()

		_, err := (&ConnectionOptions{Network: "udp"}).ToConnectionConfig()
		require.ErrorIs(t, err, command.ErrInvalidConnectionConfig)
	})
}

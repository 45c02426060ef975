package redisdb

import (
	"fmt"
	"time"

	"github.com/oshokin/xk6-redis-db/redisdb/command"
)

// ConnectionOptions exposes the go-redis client settings at the k6 JS layer.
//
// The object is free-form: unknown fields are ignored, so option objects
// written for other Redis clients keep working as long as they use the
// names below. host/port follow the node-redis style; url and addr follow
// go-redis.
type ConnectionOptions struct {
	// URL is a redis:// or rediss:// connection string.
	URL string `js:"url"`

	// Addr is a "host:port" pair. It takes precedence over host/port and url.
	Addr string `js:"addr"`

	// Host and Port are joined into an address when addr is empty.
	Host string `js:"host"`
	Port int    `js:"port"`

	// Path is a unix socket path (node-redis style). It implies the
	// "unix" network and is used when addr is empty.
	Path string `js:"path"`

	// Network is "tcp" (default) or "unix".
	Network string `js:"network"`

	Username string `js:"username"`
	Password string `js:"password"`

	// DB selects the logical database. Nil keeps the URL's (or zero).
	DB *int `js:"db"`

	// ClientName is sent with CLIENT SETNAME on connect.
	ClientName string `js:"clientName"`

	// Protocol selects RESP2 (2) or RESP3 (3).
	Protocol int `js:"protocol"`

	// TLS enables TLS using the address host as server name.
	TLS bool `js:"tls"`

	// DialTimeout, ReadTimeout and WriteTimeout bound the single request.
	//
	// Accepted types:
	//   - number: milliseconds.
	//   - string: Go duration, e.g. "1s", "500ms".
	DialTimeout  any `js:"dialTimeout"`
	ReadTimeout  any `js:"readTimeout"`
	WriteTimeout any `js:"writeTimeout"`

	// ReadBufferSize and WriteBufferSize size the connection buffers.
	//
	// Accepted types:
	//   - number: bytes.
	//   - string: size, e.g. "32KiB", "1MB".
	ReadBufferSize  any `js:"readBufferSize"`
	WriteBufferSize any `js:"writeBufferSize"`
}

// ToConnectionConfig parses and validates the options into a command-level config.
func (co *ConnectionOptions) ToConnectionConfig() (*command.ConnectionConfig, error) {
	if co == nil {
		//nolint:nilnil // nil connection options are valid and result in a default connection.
		return nil, nil
	}

	cfg := &command.ConnectionConfig{
		URL:        co.URL,
		Addr:       co.Addr,
		Host:       co.Host,
		Port:       co.Port,
		Network:    co.Network,
		Username:   co.Username,
		Password:   co.Password,
		ClientName: co.ClientName,
		Protocol:   co.Protocol,
		TLS:        co.TLS,
	}

	if co.Path != "" && co.Addr == "" {
		if co.Network != "" && co.Network != "unix" {
			return nil, fmt.Errorf("%w: options.path needs network \"unix\", got %q", ErrInvalidOptions, co.Network)
		}

		cfg.Addr = co.Path
		cfg.Network = "unix"
	}

	if co.DB != nil {
		db := *co.DB
		cfg.DB = &db
	}

	durations := []struct {
		name   string
		value  any
		target *time.Duration
	}{
		{name: "dialTimeout", value: co.DialTimeout, target: &cfg.DialTimeout},
		{name: "readTimeout", value: co.ReadTimeout, target: &cfg.ReadTimeout},
		{name: "writeTimeout", value: co.WriteTimeout, target: &cfg.WriteTimeout},
	}

	for _, d := range durations {
		if d.value == nil {
			continue
		}

		duration, err := parseDurationValue(d.value)
		if err != nil {
			return nil, fmt.Errorf("%w: options.%s: %w", ErrInvalidOptions, d.name, err)
		}

		*d.target = duration
	}

	sizes := []struct {
		name   string
		value  any
		target *int
	}{
		{name: "readBufferSize", value: co.ReadBufferSize, target: &cfg.ReadBufferSize},
		{name: "writeBufferSize", value: co.WriteBufferSize, target: &cfg.WriteBufferSize},
	}

	for _, s := range sizes {
		if s.value == nil {
			continue
		}

		size, err := parseSizeValue(s.value)
		if err != nil {
			return nil, fmt.Errorf("%w: options.%s: %w", ErrInvalidOptions, s.name, err)
		}

		*s.target = size
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

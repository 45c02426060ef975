package command

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultHost is used when neither a URL, an address nor a host is configured.
	DefaultHost = "localhost"
	// DefaultPort is the standard Redis port.
	DefaultPort = 6379

	// connectionPoolSize pins every invocation to a single connection.
	connectionPoolSize = 1
	// retriesDisabled turns off go-redis retries (-1 means "never retry").
	retriesDisabled = -1
)

// ConnectionConfig holds the parsed connection settings for one invocation.
// Zero values mean "use the client default". Explicit fields override
// whatever URL carries.
type ConnectionConfig struct {
	// URL is a redis:// or rediss:// connection string.
	URL string
	// Addr is a host:port pair. It takes precedence over Host/Port.
	Addr string
	// Host and Port are combined into an address when Addr is empty.
	Host string
	Port int
	// Network is "tcp" or "unix".
	Network string

	Username   string
	Password   string
	DB         *int
	ClientName string
	// Protocol selects RESP2 or RESP3.
	Protocol int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	ReadBufferSize  int
	WriteBufferSize int

	// TLS enables TLS with the server name taken from the address.
	TLS bool
}

// Validate checks the config for values the client would reject later or
// silently misinterpret.
func (c *ConnectionConfig) Validate() error {
	if c == nil {
		return nil
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConnectionConfig, c.Port)
	}

	if c.DB != nil && *c.DB < 0 {
		return fmt.Errorf("%w: db must not be negative: %d", ErrInvalidConnectionConfig, *c.DB)
	}

	switch c.Protocol {
	case 0, 2, 3:
	default:
		return fmt.Errorf("%w: protocol must be 2 or 3, got %d", ErrInvalidConnectionConfig, c.Protocol)
	}

	switch c.Network {
	case "", "tcp", "unix":
	default:
		return fmt.Errorf("%w: network must be \"tcp\" or \"unix\", got %q", ErrInvalidConnectionConfig, c.Network)
	}

	if c.ReadBufferSize < 0 || c.WriteBufferSize < 0 {
		return fmt.Errorf("%w: buffer sizes must not be negative", ErrInvalidConnectionConfig)
	}

	return nil
}

// ToRedisOptions converts the config into go-redis client options. The
// returned options always use a single connection and never retry.
func (c *ConnectionConfig) ToRedisOptions() (*redis.Options, error) {
	if c == nil {
		c = new(ConnectionConfig)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := new(redis.Options)

	if c.URL != "" {
		parsed, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: url: %w", ErrInvalidConnectionConfig, err)
		}

		opts = parsed
	}

	c.applyAddress(opts)
	c.applyCredentials(opts)
	c.applyTuning(opts)

	if c.TLS && opts.TLSConfig == nil {
		serverName, _, err := net.SplitHostPort(opts.Addr)
		if err != nil {
			serverName = opts.Addr
		}

		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: serverName,
		}
	}

	opts.PoolSize = connectionPoolSize
	opts.MinIdleConns = 0
	opts.MaxRetries = retriesDisabled

	return opts, nil
}

// applyAddress resolves the target address: Addr wins over Host/Port,
// which win over the URL; nothing at all means localhost:6379.
func (c *ConnectionConfig) applyAddress(opts *redis.Options) {
	if c.Network != "" {
		opts.Network = c.Network
	}

	switch {
	case c.Addr != "":
		opts.Addr = c.Addr
	case c.Host != "" || c.Port != 0:
		host, port := c.Host, c.Port
		if host == "" {
			host = DefaultHost
		}

		if port == 0 {
			port = DefaultPort
		}

		opts.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	case opts.Addr == "":
		opts.Addr = net.JoinHostPort(DefaultHost, strconv.Itoa(DefaultPort))
	}
}

func (c *ConnectionConfig) applyCredentials(opts *redis.Options) {
	if c.Username != "" {
		opts.Username = c.Username
	}

	if c.Password != "" {
		opts.Password = c.Password
	}

	if c.DB != nil {
		opts.DB = *c.DB
	}

	if c.ClientName != "" {
		opts.ClientName = c.ClientName
	}

	if c.Protocol != 0 {
		opts.Protocol = c.Protocol
	}
}

func (c *ConnectionConfig) applyTuning(opts *redis.Options) {
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}

	if c.ReadTimeout > 0 {
		opts.ReadTimeout = c.ReadTimeout
	}

	if c.WriteTimeout > 0 {
		opts.WriteTimeout = c.WriteTimeout
	}

	if c.ReadBufferSize > 0 {
		opts.ReadBufferSize = c.ReadBufferSize
	}

	if c.WriteBufferSize > 0 {
		opts.WriteBufferSize = c.WriteBufferSize
	}
}

package redis

import (
	"time"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
)

// Mode represents the mode of the Redis client.
type Mode string

const (
	// Standalone Mode is for a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster Mode is for a Redis cluster setup.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client. Standalone mode uses
// the first address only.
type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"standalone"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	Addrs []string `env:"ADDRS" envDefault:"localhost:6379"`

	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"100ms"`
	MaxRetryBackoff time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"2s"`
	PoolSize        int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"10m"`
	PoolTimeout     time.Duration `env:"POOL_TIMEOUT" envDefault:"4s"`

	// PrefixKey is prepended to every key built by Client.Key.
	PrefixKey string `env:"PREFIX_KEY" envDefault:"liquid-matrix:"`
	// DefaultTTL is the expiration of snapshot keys. Zero keeps them forever.
	DefaultTTL time.Duration `env:"DEFAULT_TTL" envDefault:"5m"`
}

// DefaultConfig returns the configuration the env defaults produce.
func DefaultConfig() *Config {
	return &Config{
		Mode:            Standalone,
		Addrs:           []string{"localhost:6379"},
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		PoolTimeout:     4 * time.Second,
		PrefixKey:       "liquid-matrix:",
		DefaultTTL:      5 * time.Minute,
	}
}

// Validate returns the first invalid setting as a RedisConfigError.
func (c *Config) Validate() error {
	invalid := func(message, field string) error {
		return errors.NewErrorDetails(message, errors.RedisConfigError.String(), field)
	}

	switch {
	case len(c.Addrs) == 0:
		return invalid("Redis addresses are empty", "addrs")
	case c.Mode != Standalone && c.Mode != Cluster:
		return invalid("Invalid Redis mode", "mode")
	case c.ConnectTimeout <= 0:
		return invalid("Invalid Redis connect timeout", "connectTimeout")
	case c.PoolSize <= 0:
		return invalid("Invalid Redis pool size", "poolSize")
	case c.MaxIdleConns < 0:
		return invalid("Invalid Redis max idle connections", "maxIdleConns")
	case c.MaxRetries < 0:
		return invalid("Invalid Redis max retries", "maxRetries")
	case c.MinRetryBackoff < 0 || c.MaxRetryBackoff < 0:
		return invalid("Invalid Redis retry backoff", "retryBackoff")
	case c.DefaultTTL < 0:
		return invalid("Invalid Redis default TTL", "defaultTTL")
	}
	return nil
}

package redis

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
)

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
// Connect must be called before any command.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", errors.RedisConfigError.String(), "connect")
	}
	if err := c.config.Validate(); err != nil {
		return err
	}

	switch c.config.Mode {
	case Standalone:
		c.cmdable = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		c.cmdable = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		c.logger.Error(errors.NewTracer("redis_connect_error").Wrap(err), logger.NewField("addrs", c.config.Addrs))
		return errors.NewErrorDetails("Failed to connect to Redis", errors.RedisConnectionError.String(), "connect")
	}

	c.logger.Info("Connected to Redis", logger.NewField("mode", c.config.Mode), logger.NewField("addrs", c.config.Addrs))
	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	closer, ok := c.cmdable.(io.Closer)
	if !ok {
		return errors.NewErrorDetails("Redis client is not connected", errors.RedisDisconnectionError.String(), "disconnect")
	}
	if err := closer.Close(); err != nil {
		return errors.NewErrorDetails("Failed to disconnect from Redis", errors.RedisDisconnectionError.String(), "disconnect")
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if c.cmdable == nil {
		return errors.NewErrorDetails("Redis client is not connected", errors.RedisPingError.String(), "ping")
	}
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", errors.RedisPingError.String(), "ping")
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewErrorDetails("Failed to get value from Redis", errors.RedisGetError.String(), "get")
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.cmdable.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.NewErrorDetails("Failed to set value in Redis", errors.RedisSetError.String(), "set")
	}
	return nil
}

func (c *client) Del(ctx context.Context, keys ...string) (int64, error) {
	deleted, err := c.cmdable.Del(ctx, keys...).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to delete keys from Redis", errors.RedisDelError.String(), "del")
	}
	return deleted, nil
}

func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	receivers, err := c.cmdable.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to publish message to Redis", errors.RedisPublishError.String(), "publish")
	}
	return receivers, nil
}

func (c *client) Key(parts ...string) string {
	prefix := ""
	if c.config != nil {
		prefix = c.config.PrefixKey
	}
	return prefix + strings.Join(parts, ":")
}

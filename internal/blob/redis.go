package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// RedisChannel stores blobs as Redis string values.
type RedisChannel struct {
	pool *redis.Pool
}

// NewRedisChannel returns a channel over an existing pool.
func NewRedisChannel(pool *redis.Pool) *RedisChannel {
	return &RedisChannel{pool: pool}
}

// DialRedis returns a channel with its own pool, dialing rawURL
// (redis://[user:password@]host:port[/db]) on demand.
func DialRedis(rawURL string) *RedisChannel {
	return NewRedisChannel(&redis.Pool{
		MaxIdle:     4,
		IdleTimeout: time.Minute,
		Dial: func() (redis.Conn, error) {
			return redis.DialURL(rawURL)
		},
	})
}

// Put implements Channel with SET.
func (c *RedisChannel) Put(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", name, err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Do("SET", name, data); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", name, err)
	}
	return nil
}

// Get implements Channel. EXISTS and GETRANGE are pipelined so that an
// absent key is told apart from an empty value in one round trip.
func (c *RedisChannel) Get(ctx context.Context, name string, maxLen int) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	defer func() { _ = conn.Close() }()

	if maxLen <= 0 {
		exists, err := redis.Bool(conn.Do("EXISTS", name))
		if err != nil {
			return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return []byte{}, nil
	}

	if err := conn.Send("EXISTS", name); err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	if err := conn.Send("GETRANGE", name, 0, maxLen-1); err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	if err := conn.Flush(); err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	exists, err := redis.Bool(conn.Receive())
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	data, err := redis.Bytes(conn.Receive())
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// Remove implements Remover with DEL.
func (c *RedisChannel) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", name, err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Do("DEL", name); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", name, err)
	}
	return nil
}

// Close closes the pool.
func (c *RedisChannel) Close() error {
	return c.pool.Close()
}

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNil is returned by Get when the key does not exist.
var ErrNil = redis.Nil

var client *redis.Client

var pingClient = func(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Init initializes the Redis client
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pingClient(ctx, c); err != nil {
		_ = c.Close()
		return err
	}

	client = c
	return nil
}

// SetClient sets the Redis client (used for testing)
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Enabled reports whether a client has been configured
func Enabled() bool {
	return client != nil
}

// Close releases the client
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// Set stores a key-value pair with expiration
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// Del removes a key
func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// SetNX sets a key only if it does not exist
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}

// IsNil reports whether err means the key was missing.
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

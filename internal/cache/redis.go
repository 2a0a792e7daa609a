package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bloomday/gala/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the redis.Client with centralized connection pooling.
// The gallery uses it for two things: caching presigned photo URLs so a
// feed page does not re-sign on every request, and counting sign-in link
// requests per address for rate limiting. The server runs fine without it.
type RedisClient struct {
	client *redis.Client
}

// Singleton instance (package-level)
var globalRedis *RedisClient

// NewRedisClient creates and initializes a Redis client with connection pooling
func NewRedisClient(host string, port string, password string) (*RedisClient, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	rc := &RedisClient{client: client}
	globalRedis = rc

	logger.Log.Info("✅ Redis client connected successfully",
		zap.String("address", addr),
	)

	return rc, nil
}

// GetRedisClient returns the global Redis client instance. Nil when the
// server was started without Redis; callers must handle that.
func GetRedisClient() *RedisClient {
	return globalRedis
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}

// Get retrieves a value from Redis
func (rc *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return rc.client.Get(ctx, key).Result()
}

// SetEx stores a value in Redis with expiration
func (rc *RedisClient) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return rc.client.Set(ctx, key, value, ttl).Err()
}

// Del deletes one or more keys from Redis
func (rc *RedisClient) Del(ctx context.Context, keys ...string) error {
	return rc.client.Del(ctx, keys...).Err()
}

// IncrBy increments a key by a value
func (rc *RedisClient) IncrBy(ctx context.Context, key string, increment int64) (int64, error) {
	return rc.client.IncrBy(ctx, key, increment).Result()
}

// GetInt retrieves an integer value from Redis
func (rc *RedisClient) GetInt(ctx context.Context, key string) (int64, error) {
	return rc.client.Get(ctx, key).Int64()
}

// Expire sets an expiration timeout on a key
func (rc *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return rc.client.Expire(ctx, key, ttl).Err()
}

// TTL returns the time-to-live for a key
func (rc *RedisClient) TTL(ctx context.Context, key string) (time.Duration, error) {
	return rc.client.TTL(ctx, key).Result()
}

// Ping tests the Redis connection
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// IsNilError reports whether an error is the redis cache-miss sentinel
func IsNilError(err error) bool {
	return err == redis.Nil
}

// presignKey namespaces cached presigned URLs by object key
func presignKey(objectKey string) string {
	return "presign:" + objectKey
}

// GetPresignedURL returns a cached presigned URL for an object key, or
// "" on a miss. Errors are treated as misses; the caller re-signs.
func (rc *RedisClient) GetPresignedURL(ctx context.Context, objectKey string) string {
	if rc == nil {
		return ""
	}
	url, err := rc.Get(ctx, presignKey(objectKey))
	if err != nil {
		return ""
	}
	return url
}

// SetPresignedURL caches a presigned URL. The TTL must stay below the
// URL's own expiry or clients would receive dead links from cache.
func (rc *RedisClient) SetPresignedURL(ctx context.Context, objectKey, url string, ttl time.Duration) {
	if rc == nil {
		return
	}
	if err := rc.SetEx(ctx, presignKey(objectKey), url, ttl); err != nil {
		logger.Log.Warn("Failed to cache presigned URL",
			zap.String("key", objectKey),
			zap.Error(err),
		)
	}
}

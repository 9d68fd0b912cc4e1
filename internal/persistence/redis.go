package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
)

const employeeCachePrefix = "employee:"

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// EmployeeCache adapts the client to repository.EmployeeCache.
func (r *Redis) EmployeeCache() *RedisEmployeeCache {
	return &RedisEmployeeCache{client: r.Client}
}

// RedisEmployeeCache stores JSON-encoded employees under employee:<id>.
type RedisEmployeeCache struct {
	client *redis.Client
}

func employeeCacheKey(id int64) string {
	return employeeCachePrefix + strconv.FormatInt(id, 10)
}

// Get returns the cached employee, reporting a miss as ok == false.
func (c *RedisEmployeeCache) Get(ctx context.Context, id int64) (*domain.Employee, bool, error) {
	data, err := c.client.Get(ctx, employeeCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var emp domain.Employee
	if err := json.Unmarshal(data, &emp); err != nil {
		return nil, false, err
	}
	return &emp, true, nil
}

// Set caches emp for ttl.
func (c *RedisEmployeeCache) Set(ctx context.Context, emp *domain.Employee, ttl time.Duration) error {
	data, err := json.Marshal(emp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, employeeCacheKey(emp.ID), data, ttl).Err()
}

// Delete evicts the entry for id.
func (c *RedisEmployeeCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, employeeCacheKey(id)).Err()
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go-mouli/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Redis struct {
	Client *redis.Client
	tracer trace.Tracer
}

func NewRedis(ctx context.Context) (*Redis, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opt.Addr)

	r := &Redis{Client: client}

	// Only initialize tracer if telemetry is enabled
	if config.GetBoolEnv("ENABLE_TELEMETRY", false) {
		r.tracer = otel.Tracer("redis-client")
	}

	return r, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// span wraps an operation in a trace span when telemetry is enabled.
func (r *Redis) span(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	if r.tracer == nil {
		return fn(ctx)
	}
	ctx, sp := r.tracer.Start(ctx, "redis."+op,
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.String("redis.operation", op),
		),
	)
	defer sp.End()

	err := fn(ctx)
	if err != nil && err != redis.Nil {
		sp.RecordError(err)
	}
	return err
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.span(ctx, "set", key, func(ctx context.Context) error {
		return r.Client.Set(ctx, key, value, expiration).Err()
	})
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := r.span(ctx, "get", key, func(ctx context.Context) error {
		var err error
		result, err = r.Client.Get(ctx, key).Result()
		return err
	})
	return result, err
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.span(ctx, "del", keys[0], func(ctx context.Context) error {
		return r.Client.Del(ctx, keys...).Err()
	})
}

// IsNotFound reports whether an error from Get/GetJSON means the key is absent.
func IsNotFound(err error) bool {
	return err == redis.Nil
}

// SetJSON marshals value and stores it under key with the given TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	return r.Set(ctx, key, data, expiration)
}

// GetJSON fetches key and unmarshals it into dest.
func (r *Redis) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return nil
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// Package journal persists replanning cycles so a navigation session can be
// inspected after the fact.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdrpinto/astarnav/navigator"
)

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Prefix namespaces every key. Defaults to "astarnav".
	Prefix string

	// TTL expires a session's step list after the last write. Zero keeps it.
	TTL time.Duration

	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

// Redis records navigator steps into Redis lists, one per session.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ navigator.Recorder = (*Redis)(nil)

// NewRedis connects and pings Redis.
func NewRedis(opts Options) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = "astarnav"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (r *Redis) stepsKey(session string) string {
	return fmt.Sprintf("%s:%s:steps", r.prefix, session)
}

func (r *Redis) sessionsKey() string {
	return r.prefix + ":sessions"
}

// Record appends step to its session's list.
func (r *Redis) Record(ctx context.Context, step navigator.Step) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to marshal step: %w", err)
	}

	key := r.stepsKey(step.Session)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.SAdd(ctx, r.sessionsKey(), step.Session)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record step %d of %s: %w", step.Iteration, step.Session, err)
	}
	return nil
}

// Steps returns the recorded steps of session in order.
func (r *Redis) Steps(ctx context.Context, session string) ([]navigator.Step, error) {
	raw, err := r.client.LRange(ctx, r.stepsKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read steps of %s: %w", session, err)
	}
	steps := make([]navigator.Step, 0, len(raw))
	for i, item := range raw {
		var s navigator.Step
		if err := json.Unmarshal([]byte(item), &s); err != nil {
			return nil, fmt.Errorf("failed to decode step %d of %s: %w", i, session, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// Sessions lists every session that has recorded a step.
func (r *Redis) Sessions(ctx context.Context) ([]string, error) {
	sessions, err := r.client.SMembers(ctx, r.sessionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

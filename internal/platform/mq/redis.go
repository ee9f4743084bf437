// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// redisPollTimeout bounds each BRPOP so that cancellation is noticed.
	redisPollTimeout = 5 * time.Second
	// redisRetryPoll is the BRPOP bound while retries are waiting, so that
	// due ones are promoted promptly. One second is the BRPOP minimum.
	redisRetryPoll = time.Second
	// redisMaxAttempts is how often a failing message is retried before it
	// is moved to the "<channel>:dead" list.
	redisMaxAttempts = 5

	defaultRetryDelay    = 2 * time.Second
	defaultMaxRetryDelay = time.Minute
)

// promoteDue moves retries whose due time (the score, unix ms) has passed
// from the delayed set back onto the list, and returns how many still wait.
var promoteDue = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', '0', '100')
for _, member in ipairs(due) do
	redis.call('ZREM', KEYS[1], member)
	redis.call('LPUSH', KEYS[2], member)
end
return redis.call('ZCARD', KEYS[1])
`)

// redisEnvelope is the JSON form of a [Message] on a Redis list.
type redisEnvelope struct {
	ID         string            `json:"id"`
	Data       []byte            `json:"data"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Attempts   int               `json:"attempts"`
}

// RedisListBackend implements [Backend] on Redis lists: LPUSH to publish,
// BRPOP to consume. A failed message waits in the "<channel>:delayed"
// sorted set for an exponential backoff before it is retried.
type RedisListBackend struct {
	client        redis.UniversalClient
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// RedisListOption customizes a [RedisListBackend].
type RedisListOption func(*RedisListBackend)

// WithRetryDelay sets the backoff before the first retry and its ceiling.
// Each further attempt doubles the delay.
func WithRetryDelay(base, ceiling time.Duration) RedisListOption {
	return func(r *RedisListBackend) {
		if base > 0 {
			r.retryDelay = base
		}
		if ceiling >= base {
			r.maxRetryDelay = ceiling
		}
	}
}

// NewRedisListBackend wraps an existing client. Close does not close it.
func NewRedisListBackend(client redis.UniversalClient, opts ...RedisListOption) *RedisListBackend {
	backend := &RedisListBackend{
		client:        client,
		retryDelay:    defaultRetryDelay,
		maxRetryDelay: defaultMaxRetryDelay,
	}
	for _, opt := range opts {
		opt(backend)
	}
	return backend
}

// RetryDelay returns the wait before retry number attempts (1-based).
func (r *RedisListBackend) RetryDelay(attempts int) time.Duration {
	delay := r.retryDelay
	for i := 1; i < attempts && delay < r.maxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, r.maxRetryDelay)
}

// Publish appends a message to the named list.
func (r *RedisListBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("redis channel is required")
	}

	envelope := redisEnvelope{ID: newMessageID(), Data: data, Attributes: attrs}
	if err := r.push(ctx, channel, envelope); err != nil {
		return "", err
	}
	return envelope.ID, nil
}

// Subscribe pops messages from the named list until ctx is done.
func (r *RedisListBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("redis channel is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		waiting, err := promoteDue.Run(ctx, r.client, []string{delayedKey(channel), channel}, time.Now().UnixMilli()).Int()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("mq_redis_promote_failed: %w", err)
		}

		timeout := redisPollTimeout
		if waiting > 0 {
			timeout = redisRetryPoll
		}

		result, err := r.client.BRPop(ctx, timeout, channel).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("mq_redis_pop_failed: %w", err)
		}

		// BRPOP returns [key, value].
		var envelope redisEnvelope
		if err := json.Unmarshal([]byte(result[1]), &envelope); err != nil {
			_ = r.client.LPush(ctx, channel+":dead", result[1]).Err()
			continue
		}

		message := Message{ID: envelope.ID, Data: envelope.Data, Attributes: envelope.Attributes}
		if err := handler(ctx, message); err != nil {
			envelope.Attempts++
			detached := context.WithoutCancel(ctx)
			if envelope.Attempts >= redisMaxAttempts {
				if pushErr := r.push(detached, channel+":dead", envelope); pushErr != nil {
					return pushErr
				}
				continue
			}
			if delayErr := r.delay(detached, channel, envelope); delayErr != nil {
				return delayErr
			}
		}
	}
}

// Close is a no-op; the client is owned by the caller.
func (r *RedisListBackend) Close() error {
	return nil
}

// delay parks envelope in the delayed set until its backoff has passed.
func (r *RedisListBackend) delay(ctx context.Context, channel string, envelope redisEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("mq_redis_encode_failed: %w", err)
	}
	due := time.Now().Add(r.RetryDelay(envelope.Attempts)).UnixMilli()
	if err := r.client.ZAdd(ctx, delayedKey(channel), redis.Z{Score: float64(due), Member: payload}).Err(); err != nil {
		return fmt.Errorf("mq_redis_delay_failed: %w", err)
	}
	return nil
}

func delayedKey(channel string) string {
	return channel + ":delayed"
}

func (r *RedisListBackend) push(ctx context.Context, list string, envelope redisEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("mq_redis_encode_failed: %w", err)
	}
	if err := r.client.LPush(ctx, list, payload).Err(); err != nil {
		return fmt.Errorf("mq_redis_push_failed: %w", err)
	}
	return nil
}

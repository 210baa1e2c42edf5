package rate_limiting_strategies

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fortunegram/fortunegram"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	_ fortunegram.Strategy = &slidingWindowLimiter{}
)

// slidingWindowScript prunes, counts and conditionally records in one step.
// It returns {admitted, total, oldest} with oldest in unix milliseconds.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
local count = redis.call('ZCARD', key)
if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, count, tonumber(oldest[2])}
end

redis.call('ZADD', key, ARGV[1], ARGV[4])
redis.call('PEXPIRE', key, ARGV[5])
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {1, count + 1, tonumber(first[2])}
`)

type slidingWindowLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewSlidingWindowLimiter initializes a sliding window rate limiter backed by
// a Redis sorted set per key. Idle keys expire after one window.
func NewSlidingWindowLimiter(client *redis.Client, now func() time.Time) fortunegram.Strategy {
	return &slidingWindowLimiter{
		client: client,
		now:    now,
	}
}

// Execute performs rate limiting using a sliding window strategy.
func (s *slidingWindowLimiter) Execute(ctx context.Context, r *fortunegram.Request) (*fortunegram.Result, error) {
	if r.Limit == 0 || r.Duration <= 0 {
		return nil, fmt.Errorf("invalid rate limit request for key %v: limit and duration must be positive", r.Key)
	}

	now := s.now()

	// every request needs an UUID
	item := uuid.New()

	reply, err := slidingWindowScript.Run(ctx, s.client, []string{r.Key},
		strconv.FormatInt(now.UnixMilli(), 10),
		strconv.FormatInt(now.Add(-r.Duration).UnixMilli(), 10),
		strconv.FormatUint(r.Limit, 10),
		item.String(),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run sliding window script for key %v: %w", r.Key, err)
	}
	if len(reply) != 3 {
		return nil, fmt.Errorf("unexpected sliding window reply for key %v: %v", r.Key, reply)
	}

	state := fortunegram.Deny
	if reply[0] == 1 {
		state = fortunegram.Allow
	}

	return &fortunegram.Result{
		State:         state,
		TotalRequests: uint64(reply[1]),
		ExpiresAt:     time.UnixMilli(reply[2]).Add(r.Duration),
	}, nil
}

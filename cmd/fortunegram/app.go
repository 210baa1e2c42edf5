package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fortunegram/fortunegram"
	"github.com/fortunegram/fortunegram/choices"
	"github.com/fortunegram/fortunegram/config"
	"github.com/fortunegram/fortunegram/corpse"
	"github.com/fortunegram/fortunegram/internal/randx"
	"github.com/fortunegram/fortunegram/llm"
	"github.com/fortunegram/fortunegram/oracles"
	"github.com/fortunegram/fortunegram/quotes"
	"github.com/fortunegram/fortunegram/rate_limiting_strategies"
	"github.com/fortunegram/fortunegram/readings"
)

// app holds everything both the server and the one-shot reader need.
type app struct {
	resolver *oracles.Resolver
	corpse   *corpse.Generator
	tables   *readings.Tables
	choices  *choices.Vocabulary
	rng      randx.Source
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	rng := randx.NewFromTime()
	if cfg.Generation.Seed != 0 {
		rng = randx.New(cfg.Generation.Seed)
	}

	lib, err := quotes.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}
	tables, err := readings.LoadTables()
	if err != nil {
		return nil, fmt.Errorf("load divination tables: %w", err)
	}
	vocabulary, err := choices.Load()
	if err != nil {
		return nil, fmt.Errorf("load choices: %w", err)
	}

	gen, err := llm.New(ctx, cfg.Generation.LLM(), logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("configure %s provider: %w", cfg.Generation.Provider, err)
	}

	resolver, err := oracles.NewResolver(oracles.ResolverConfig{
		Generator: gen,
		Quotes:    quotes.NewSelector(lib, rng),
		Readings:  readings.NewReader(tables, rng),
		Logger:    logger.Named("oracles"),
		Timeout:   cfg.Generation.Timeout,
		MaxTokens: cfg.Generation.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		resolver: resolver,
		corpse:   corpse.NewGenerator(rng),
		tables:   tables,
		choices:  vocabulary,
		rng:      rng,
	}, nil
}

// limiterStore is the rate limiting backend plus its lifecycle hooks.
type limiterStore struct {
	strategy fortunegram.Strategy
	now      func() time.Time
	// run is nil when the backend needs no background work.
	run   func(ctx context.Context) error
	close func() error
}

func newLimiterStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*limiterStore, error) {
	switch cfg.Storage.Type {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Storage.Redis.Addr(), err)
		}
		return &limiterStore{
			strategy: rate_limiting_strategies.NewSlidingWindowLimiter(client, time.Now),
			now:      time.Now,
			close:    client.Close,
		}, nil
	case config.StorageMemory:
		limiter := rate_limiting_strategies.NewMemorySlidingWindowLimiter(time.Now, rate_limiting_strategies.MemoryOptions{
			MaxClients: cfg.RateLimiter.MaxClients,
		})
		return &limiterStore{
			strategy: limiter,
			now:      time.Now,
			run: func(ctx context.Context) error {
				return limiter.Run(ctx, cfg.RateLimiter.SweepInterval, func(removed int) {
					if removed > 0 {
						logger.Debug("swept idle clients", zap.Int("removed", removed), zap.Int("tracked", limiter.Len()))
					}
				})
			},
			close: func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}

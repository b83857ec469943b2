package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/envutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/scheduler"
)

// StrategyCache memoizes provider strategies so repeated score writes with
// similar inputs don't each pay for a generative call. Keys bucket the
// score to the nearest 5 points; nearby scores share a plan anyway.
type StrategyCache interface {
	Get(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, bool)
	Set(ctx context.Context, scorePercentage float64, daysLeft int, s scheduler.Strategy)
	Close() error
}

type strategyCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewStrategyCache connects to Redis at REDIS_ADDR. Callers should only
// construct it when that variable is set; the score service treats a nil
// cache as disabled.
func NewStrategyCache(log *logger.Logger) (StrategyCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Seconds("STRATEGY_CACHE_TTL", 6*time.Hour)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &strategyCache{
		log: log.With("client", "StrategyCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(scorePercentage float64, daysLeft int) string {
	bucket := int(math.Round(scorePercentage/5)) * 5
	return fmt.Sprintf("strategy:%d:%d", bucket, daysLeft)
}

func (c *strategyCache) Get(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(scorePercentage, daysLeft)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Strategy cache read failed", "error", err)
		}
		return scheduler.Strategy{}, false
	}
	var s scheduler.Strategy
	if err := json.Unmarshal(raw, &s); err != nil {
		return scheduler.Strategy{}, false
	}
	if err := scheduler.Validate(s); err != nil {
		return scheduler.Strategy{}, false
	}
	return s, true
}

func (c *strategyCache) Set(ctx context.Context, scorePercentage float64, daysLeft int, s scheduler.Strategy) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(scorePercentage, daysLeft), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Strategy cache write failed", "error", err)
	}
}

func (c *strategyCache) Close() error {
	return c.rdb.Close()
}

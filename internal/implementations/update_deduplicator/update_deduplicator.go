package updatededuplicator

import (
	"context"
	"fmt"
	"ponger/internal/core/domain/bot"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"time"

	"github.com/go-redis/redis/v9"
)

const KEY_PREFIX = "ponger::update"

func Key(id bot.UpdateID) string {
	return fmt.Sprintf("%s::%d", KEY_PREFIX, id)
}

// Redis remembers seen update IDs for ttl. When Redis is unavailable every
// update counts as a first delivery.
type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	ttl         time.Duration
}

func NewRedis(redisClient *redis.Client, log logging.Logger, ttl time.Duration) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Redis{redisClient: redisClient, log: log, ttl: ttl}
}

func (r *Redis) IsFirstDelivery(ctx context.Context, id bot.UpdateID) bool {
	stored, err := r.redisClient.SetNX(ctx, Key(id), 1, r.ttl).Result()
	if err != nil {
		r.log.Error(
			ctx,
			"Could not check update delivery due to Redis client error.",
			logging.Entry("err", err),
			logging.Entry("updateID", id),
		)
		return true
	}
	return stored
}

package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	nowFunc     func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		nowFunc:     time.Now,
	}
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	createdAtUnixStr, err := lc.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return false, err
	}
	if createdAtUnix <= 0 {
		return false, nil
	}

	return lc.nowFunc().Sub(time.Unix(createdAtUnix, 0)) <= lc.ttl, nil
}

// IsNotLoggedErr tells apart an unknown token from a redis failure.
func IsNotLoggedErr(err error) bool {
	return errors.Is(err, redis.Nil)
}

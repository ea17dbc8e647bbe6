package interfaces

import (
	"context"
	"time"

	"aocbot/internal/models"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// Locker hands out a mutual-exclusion token per key. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func() error, error)
}

type LeaderboardStore interface {
	Load(event string) (*models.Leaderboard, error)
	Save(lb *models.Leaderboard) error
	Age(event string) (time.Duration, error)
}

type LeaderboardFetcher interface {
	FetchLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error)
	VerifyLogin(ctx context.Context) error
}

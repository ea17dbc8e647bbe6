package services

import (
	"context"
	"errors"
	"time"

	"aocbot/internal/datastore"
	"aocbot/internal/interfaces"
	"aocbot/internal/models"
	"aocbot/internal/pkg"
	"aocbot/internal/pkg/caching"

	"github.com/samber/do"
	"go.uber.org/zap"
)

type LeaderboardConfig struct {
	// RateLimit is how old a snapshot may get before it is fetched again.
	RateLimit     time.Duration
	LoginCheckTTL time.Duration
	LeaderboardID string
	BaseURL       string
	Title         string
	Now           func() time.Time
}

type ServiceLeaderboard struct {
	store   interfaces.LeaderboardStore
	fetcher interfaces.LeaderboardFetcher
	locker  interfaces.Locker
	cache   caching.Cache
	logger  *zap.Logger
	config  LeaderboardConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	store, err := do.Invoke[interfaces.LeaderboardStore](container)
	if err != nil {
		return nil, err
	}

	fetcher, err := do.Invoke[interfaces.LeaderboardFetcher](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[LeaderboardConfig](container)
	if err != nil {
		return nil, err
	}
	if config.RateLimit <= 0 {
		config.RateLimit = DEFAULT_LEADERBOARD_RATE_LIMIT
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultAocBaseURL
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &ServiceLeaderboard{store, fetcher, locker, cache, logger, config}, nil
}

// ResolveEvent returns the current event for an empty argument and validates
// anything else.
func (service *ServiceLeaderboard) ResolveEvent(event string) (string, error) {
	now := service.config.Now()
	if event == "" {
		return pkg.CurrentEvent(now), nil
	}
	if err := pkg.ValidateEvent(event, now); err != nil {
		return "", err
	}
	return event, nil
}

// GetLeaderboard serves the snapshot of event while it is younger than the rate
// limit and fetches a new one otherwise. A fetched leaderboard is saved before
// it is returned.
func (service *ServiceLeaderboard) GetLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error) {
	event, err := service.ResolveEvent(event)
	if err != nil {
		return nil, err
	}

	lb, err := service.lookup(event)
	if err != nil || lb != nil {
		return lb, err
	}

	unlock, err := service.locker.Lock(ctx, LockKeyLeaderboard(event))
	if err != nil {
		return nil, err
	}
	// nolint:errcheck
	defer unlock()

	// someone else may have refreshed while we waited for the lock
	lb, err = service.lookup(event)
	if err != nil || lb != nil {
		return lb, err
	}

	return service.refresh(ctx, event)
}

// RefreshLeaderboard fetches and saves event regardless of the snapshot age.
func (service *ServiceLeaderboard) RefreshLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error) {
	event, err := service.ResolveEvent(event)
	if err != nil {
		return nil, err
	}

	unlock, err := service.locker.Lock(ctx, LockKeyLeaderboard(event))
	if err != nil {
		return nil, err
	}
	// nolint:errcheck
	defer unlock()

	return service.refresh(ctx, event)
}

func (service *ServiceLeaderboard) RenderLeaderboard(ctx context.Context, event string) (string, error) {
	lb, err := service.GetLeaderboard(ctx, event)
	if err != nil {
		return "", err
	}
	return FormatLeaderboard(lb, service.config.BaseURL, service.config.Title), nil
}

func (service *ServiceLeaderboard) RenderLeaderboardHTML(ctx context.Context, event string) (string, error) {
	lb, err := service.GetLeaderboard(ctx, event)
	if err != nil {
		return "", err
	}
	return service.FormatHTML(lb), nil
}

func (service *ServiceLeaderboard) FormatHTML(lb *models.Leaderboard) string {
	return FormatLeaderboardHTML(lb, service.config.BaseURL, service.config.Title)
}

// VerifyLogin checks the session cookie upstream. Successful checks are
// remembered for LoginCheckTTL, failures never are.
func (service *ServiceLeaderboard) VerifyLogin(ctx context.Context) error {
	if service.config.LoginCheckTTL <= 0 {
		return service.fetcher.VerifyLogin(ctx)
	}

	_, err := caching.UseCache(ctx, service.cache, CacheKeyLogin(service.config.LeaderboardID), service.config.LoginCheckTTL, func() (bool, error) {
		if err := service.fetcher.VerifyLogin(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
	return err
}

// lookup returns the snapshot when it can be served, nil when it has to be
// fetched.
func (service *ServiceLeaderboard) lookup(event string) (*models.Leaderboard, error) {
	logger := service.logger.With(zap.String("event", event))

	age, err := service.store.Age(event)
	if errors.Is(err, datastore.ErrSnapshotNotFound) {
		snapshotLookupCounter.WithLabelValues(snapshotMiss).Inc()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if age > service.config.RateLimit {
		snapshotLookupCounter.WithLabelValues(snapshotStale).Inc()
		logger.Debug("snapshot is stale", zap.Duration("age", age))
		return nil, nil
	}

	lb, err := service.store.Load(event)
	switch {
	case errors.Is(err, datastore.ErrSnapshotNotFound):
		snapshotLookupCounter.WithLabelValues(snapshotMiss).Inc()
		return nil, nil
	case errors.Is(err, datastore.ErrSnapshotCorrupt):
		snapshotLookupCounter.WithLabelValues(snapshotCorrupt).Inc()
		logger.Warn("snapshot is corrupt, fetching again", zap.Error(err))
		return nil, nil
	case err != nil:
		return nil, err
	}

	snapshotLookupCounter.WithLabelValues(snapshotHit).Inc()
	return lb, nil
}

func (service *ServiceLeaderboard) refresh(ctx context.Context, event string) (*models.Leaderboard, error) {
	logger := service.logger.With(zap.String("event", event))

	lb, err := service.fetcher.FetchLeaderboard(ctx, event)
	if err != nil {
		logger.Info("fetch leaderboard failed", zap.Error(err))
		return nil, err
	}

	if err := service.store.Save(lb); err != nil {
		return nil, err
	}

	logger.Info("leaderboard refreshed", zap.Int("members", len(lb.Members)), zap.Int("stars", lb.TotalStars()))
	return lb, nil
}

package app

import (
	"testing"
	"time"

	"aocbot/internal/interfaces"
	"aocbot/internal/pkg/caching"
	"aocbot/internal/pkg/limiter"
	"aocbot/internal/pkg/locking"
	"aocbot/internal/services"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnvs(t *testing.T) map[string]string {
	return map[string]string{
		services.CONFIG_AOC_SESSION:            "s3cr3t",
		services.CONFIG_AOC_LEADERBOARD_ID:     "10",
		services.CONFIG_LEADERBOARDS_DIR:       t.TempDir(),
		services.CONFIG_LEADERBOARD_RATE_LIMIT: "10m",
		services.CONFIG_REDIS_MUTEX:            "",
		services.CONFIG_REDIS_CACHE:            "",
		services.CONFIG_REDIS_LIMITER:          "",
		services.CONFIG_LOG_ENCODING:           "console",
	}
}

func TestNewContainerWithoutRedis(t *testing.T) {
	container := NewContainer(testEnvs(t))

	locker, err := do.Invoke[interfaces.Locker](container)
	require.NoError(t, err)
	assert.IsType(t, &locking.KeyedMutex{}, locker)

	cache, err := do.Invoke[caching.Cache](container)
	require.NoError(t, err)
	assert.NotNil(t, cache)

	l, err := do.Invoke[interfaces.Limiter](container)
	require.NoError(t, err)
	assert.IsType(t, limiter.NoopLimiter{}, l)

	fetcher, err := do.Invoke[interfaces.LeaderboardFetcher](container)
	require.NoError(t, err)
	assert.IsType(t, &services.AocClient{}, fetcher)

	_, err = do.Invoke[*services.ServiceLeaderboard](container)
	require.NoError(t, err)

	config, err := do.Invoke[services.LeaderboardConfig](container)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, config.RateLimit)
	assert.Equal(t, services.DEFAULT_LOGIN_CHECK_TTL, config.LoginCheckTTL)
	assert.Equal(t, "https://adventofcode.com", config.BaseURL)

	vs := do.MustInvokeNamed[map[string]string](container, "envs")
	assert.Equal(t, services.DEFAULT_CRONJOB_TIME_LEADERBOARD, vs[services.CONFIG_CRONJOB_TIME_LEADERBOARD])
}

func TestLeaderboardConfigFromEnvsRejectsBadDuration(t *testing.T) {
	_, err := LeaderboardConfigFromEnvs(map[string]string{services.CONFIG_LEADERBOARD_RATE_LIMIT: "soon"})
	assert.Error(t, err)

	_, err = AocConfigFromEnvs(map[string]string{services.CONFIG_AOC_HTTP_TIMEOUT: "10"})
	assert.Error(t, err)
}

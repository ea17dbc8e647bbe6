package app

import (
	"os"
	"strings"
	"time"

	"aocbot/internal/datastore"
	"aocbot/internal/interfaces"
	"aocbot/internal/pkg/caching"
	"aocbot/internal/pkg/limiter"
	"aocbot/internal/pkg/locking"
	"aocbot/internal/pkg/logging"
	"aocbot/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// optional settings and their defaults, copied into the envs map
var optionalEnvs = map[string]string{
	services.CONFIG_AOC_BASE_URL:             services.DefaultAocBaseURL,
	services.CONFIG_AOC_USER_AGENT:           services.DefaultAocUserAgent,
	services.CONFIG_AOC_HTTP_TIMEOUT:         services.DefaultAocTimeout.String(),
	services.CONFIG_LEADERBOARDS_DIR:         services.DEFAULT_LEADERBOARDS_DIR,
	services.CONFIG_LEADERBOARD_RATE_LIMIT:   services.DEFAULT_LEADERBOARD_RATE_LIMIT.String(),
	services.CONFIG_LEADERBOARD_TITLE:        "",
	services.CONFIG_LOGIN_CHECK_TTL:          services.DEFAULT_LOGIN_CHECK_TTL.String(),
	services.CONFIG_REDIS_MUTEX:              "",
	services.CONFIG_REDIS_CACHE:              "",
	services.CONFIG_REDIS_LIMITER:            "",
	services.CONFIG_ADMIN_CHAT_ID:            "",
	services.CONFIG_NOTIFY_CHAT_ID:           "",
	services.CONFIG_CRONJOB_TIME_LEADERBOARD: services.DEFAULT_CRONJOB_TIME_LEADERBOARD,
	services.CONFIG_API_MODE:                 "production",
	services.CONFIG_API_ORIGINS:              "*",
	services.CONFIG_LOG_LEVEL:                "info",
	services.CONFIG_LOG_ENCODING:             "json",
}

// ApplyEnvDefaults fills vs with the optional settings, preferring the process
// environment over the defaults.
func ApplyEnvDefaults(vs map[string]string) {
	for key, fallback := range optionalEnvs {
		if _, ok := vs[key]; ok {
			continue
		}
		if v := os.Getenv(key); v != "" {
			vs[key] = v
		} else {
			vs[key] = fallback
		}
	}
	if _, ok := vs[services.CONFIG_BOT_TOKEN]; !ok {
		vs[services.CONFIG_BOT_TOKEN] = os.Getenv(services.CONFIG_BOT_TOKEN)
	}
}

func parseDuration(v string, fallback time.Duration) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func LeaderboardConfigFromEnvs(vs map[string]string) (services.LeaderboardConfig, error) {
	rateLimit, err := parseDuration(vs[services.CONFIG_LEADERBOARD_RATE_LIMIT], services.DEFAULT_LEADERBOARD_RATE_LIMIT)
	if err != nil {
		return services.LeaderboardConfig{}, err
	}
	loginTTL, err := parseDuration(vs[services.CONFIG_LOGIN_CHECK_TTL], services.DEFAULT_LOGIN_CHECK_TTL)
	if err != nil {
		return services.LeaderboardConfig{}, err
	}

	return services.LeaderboardConfig{
		RateLimit:     rateLimit,
		LoginCheckTTL: loginTTL,
		LeaderboardID: vs[services.CONFIG_AOC_LEADERBOARD_ID],
		BaseURL:       strings.TrimRight(vs[services.CONFIG_AOC_BASE_URL], "/"),
		Title:         vs[services.CONFIG_LEADERBOARD_TITLE],
		Now:           time.Now,
	}, nil
}

func AocConfigFromEnvs(vs map[string]string) (services.AocConfig, error) {
	timeout, err := parseDuration(vs[services.CONFIG_AOC_HTTP_TIMEOUT], services.DefaultAocTimeout)
	if err != nil {
		return services.AocConfig{}, err
	}

	return services.AocConfig{
		BaseURL:       vs[services.CONFIG_AOC_BASE_URL],
		Session:       vs[services.CONFIG_AOC_SESSION],
		LeaderboardID: vs[services.CONFIG_AOC_LEADERBOARD_ID],
		UserAgent:     vs[services.CONFIG_AOC_USER_AGENT],
		Timeout:       timeout,
		Now:           time.Now,
	}, nil
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	ApplyEnvDefaults(vs)

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		return logging.NewLogger(vs[services.CONFIG_LOG_LEVEL], vs[services.CONFIG_LOG_ENCODING])
	})

	redisEnvs := map[string]string{
		"redis-mutex":   services.CONFIG_REDIS_MUTEX,
		"redis-cache":   services.CONFIG_REDIS_CACHE,
		"redis-limiter": services.CONFIG_REDIS_LIMITER,
	}
	for name, key := range redisEnvs {
		key := key
		do.ProvideNamed(injector, name, func(i *do.Injector) (redis.UniversalClient, error) {
			return db.InitRedis(&db.RedisConfig{
				URL: vs[key],
			})
		})
	}

	do.Provide(injector, func(i *do.Injector) (interfaces.Locker, error) {
		if vs[services.CONFIG_REDIS_MUTEX] == "" {
			return locking.NewKeyedMutex(), nil
		}

		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		rs := redsync.New(pool)
		return locking.NewRedsyncLocker(rs, services.DEFAULT_LOCK_EXPIRY), nil
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if vs[services.CONFIG_REDIS_CACHE] == "" {
			ttl, err := parseDuration(vs[services.CONFIG_LOGIN_CHECK_TTL], services.DEFAULT_LOGIN_CHECK_TTL)
			if err != nil {
				return nil, err
			}
			if ttl <= 0 {
				ttl = time.Minute
			}
			return caching.NewCacheLocal(1000, ttl), nil
		}

		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		if vs[services.CONFIG_REDIS_LIMITER] == "" {
			return limiter.NoopLimiter{}, nil
		}

		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewRedisRateLimiter(dbRedis), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.LeaderboardStore, error) {
		config, err := do.Invoke[services.LeaderboardConfig](i)
		if err != nil {
			return nil, err
		}

		return datastore.NewLeaderboardFileStore(vs[services.CONFIG_LEADERBOARDS_DIR], datastore.WithClock(config.Now)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*services.AocClient, error) {
		logger, err := do.Invoke[*zap.Logger](i)
		if err != nil {
			return nil, err
		}

		config, err := AocConfigFromEnvs(vs)
		if err != nil {
			return nil, err
		}

		return services.NewAocClient(config, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.LeaderboardFetcher, error) {
		client, err := do.Invoke[*services.AocClient](i)
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	do.Provide(injector, func(i *do.Injector) (services.LeaderboardConfig, error) {
		return LeaderboardConfigFromEnvs(vs)
	})

	do.Provide(injector, func(i *do.Injector) (*services.Bot, error) {
		return services.NewBot(vs[services.CONFIG_BOT_TOKEN])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLeaderboard, error) {
		return services.NewServiceLeaderboard(injector)
	})

	return injector
}

package handler

import (
	"errors"

	"aocbot/internal/datastore"
	"aocbot/internal/interfaces"
	"aocbot/internal/models"
	"aocbot/internal/pkg"
	"aocbot/internal/pkg/limiter"
	"aocbot/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

const requestsPerMinute = 60

// RateLimit throttles clients by ip. It is a no-op unless a redis limiter is
// configured.
func RateLimit(container *do.Injector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l, err := do.Invoke[interfaces.Limiter](container)
			if err != nil {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			err = l.Allow(c.Request().Context(), "limit:ip:"+c.RealIP(), redis_rate.PerMinute(requestsPerMinute))
			if errors.Is(err, limiter.ErrRateLimited) {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
			}
			if err != nil {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
			}

			return next(c)
		}
	}
}

// classify maps domain errors onto errorx kinds for the http layer.
func classify(err error) error {
	switch {
	case errors.Is(err, pkg.ErrInvalidEvent), errors.Is(err, datastore.ErrInvalidEventName):
		return errorx.Wrap(err, errorx.Invalid)
	case errors.Is(err, services.ErrNotAMember), errors.Is(err, services.ErrInvalidSession):
		return errorx.Wrap(err, errorx.Authn)
	case errors.Is(err, models.ErrInvalidLeaderboard):
		return errorx.Wrap(err, errorx.Validation)
	default:
		return errorx.Wrap(err, errorx.Service)
	}
}

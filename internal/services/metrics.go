package services

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var upstreamRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aoc_upstream_requests_total",
	Help: "Requests sent to adventofcode.com by method and status code",
}, []string{"method", "status_code"})

var upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "aoc_upstream_request_duration_seconds",
	Help: "Duration of requests to adventofcode.com",
}, []string{"method"})

var snapshotLookupCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aoc_snapshot_lookups_total",
	Help: "Leaderboard snapshot lookups by outcome",
}, []string{"outcome"})

const (
	snapshotHit     = "hit"
	snapshotMiss    = "miss"
	snapshotStale   = "stale"
	snapshotCorrupt = "corrupt"
)

// upstreamPlugin is a heimdall plugin that counts and logs every upstream
// round trip.
type upstreamPlugin struct {
	logger *zap.Logger
}

func (p *upstreamPlugin) OnRequestStart(req *http.Request) {}

func (p *upstreamPlugin) OnRequestEnd(req *http.Request, res *http.Response) {
	upstreamRequestCounter.WithLabelValues(req.Method, strconv.Itoa(res.StatusCode)).Inc()
	p.logger.Debug("upstream request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", res.StatusCode),
	)
}

func (p *upstreamPlugin) OnError(req *http.Request, err error) {
	upstreamRequestCounter.WithLabelValues(req.Method, "error").Inc()
	p.logger.Debug("upstream request failed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Error(err),
	)
}

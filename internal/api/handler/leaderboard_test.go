package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"aocbot/internal/app"
	"aocbot/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamLeaderboard = `{
	"event": "2023",
	"owner_id": 10,
	"members": {
		"10": {"id": 10, "name": "Alice", "stars": 5},
		"2": {"id": 2, "name": "Bob", "stars": 5},
		"1": {"id": 1, "name": null, "stars": 3}
	}
}`

func newTestRouter(t *testing.T, upstream http.HandlerFunc) (http.Handler, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	container := app.NewContainer(map[string]string{
		services.CONFIG_AOC_SESSION:        "s3cr3t",
		services.CONFIG_AOC_LEADERBOARD_ID: "10",
		services.CONFIG_AOC_BASE_URL:       srv.URL,
		services.CONFIG_LEADERBOARDS_DIR:   t.TempDir(),
		services.CONFIG_LEADERBOARD_TITLE:  "tlmn00bs",
		services.CONFIG_REDIS_MUTEX:        "",
		services.CONFIG_REDIS_CACHE:        "",
		services.CONFIG_REDIS_LIMITER:      "",
	})

	router, err := New(&Config{Container: container, Mode: "production", Origins: []string{"*"}})
	require.NoError(t, err)
	return router, &calls
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetLeaderboard(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamLeaderboard)) //nolint:errcheck
	})

	rec := serve(router, "/api/v1/leaderboard/2023")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2023"`)
	assert.Contains(t, rec.Body.String(), "Alice")
	assert.Contains(t, rec.Body.String(), "anonymous user #1")

	rec = serve(router, "/api/v1/leaderboard/2023/markdown")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "[tlmn00bs 2023 leaderboard](http"))
	assert.Contains(t, rec.Body.String(), "**5** ⭐ Bob, Alice\n")

	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "second request is served from the snapshot")
}

func TestGetLeaderboardInvalidEvent(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstreamLeaderboard)) //nolint:errcheck
	})

	for _, target := range []string{"/api/v1/leaderboard/1999", "/api/v1/leaderboard/20x3", "/api/v1/leaderboard/3000/markdown"} {
		rec := serve(router, target)
		assert.NotEqual(t, http.StatusOK, rec.Code, target)
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestGetLeaderboardUpstreamRefusal(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/2023/leaderboard/private", http.StatusFound)
	})

	rec := serve(router, "/api/v1/leaderboard/2023")
	assert.NotEqual(t, http.StatusOK, rec.Code)

	rec = serve(router, "/api/v1/login")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestVerifyLogin(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	rec := serve(router, "/api/v1/login")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := serve(router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

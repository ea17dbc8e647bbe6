package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		location string
		want     ResponseVerdict
	}{
		{"ok", http.StatusOK, "", ResponseOK},
		{"ok ignores location", http.StatusOK, "/2023/leaderboard", ResponseOK},
		{"not a member", http.StatusFound, "/2023/leaderboard/private", ResponseNotAMember},
		{"not a member absolute", http.StatusFound, "https://adventofcode.com/2023/leaderboard/private", ResponseNotAMember},
		{"not a member trailing slash", http.StatusFound, "/2023/leaderboard/private/", ResponseNotAMember},
		{"invalid session", http.StatusFound, "/2023/leaderboard", ResponseInvalidSession},
		{"invalid session absolute", http.StatusFound, "https://adventofcode.com/2023/leaderboard", ResponseInvalidSession},
		{"other redirect", http.StatusFound, "/2023/auth/login", ResponseHTTPError},
		{"empty redirect", http.StatusFound, "", ResponseHTTPError},
		{"moved permanently", http.StatusMovedPermanently, "/2023/leaderboard", ResponseHTTPError},
		{"server error", http.StatusInternalServerError, "", ResponseHTTPError},
		{"not found", http.StatusNotFound, "", ResponseHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckResponse(tt.status, tt.location)
			assert.Equal(t, tt.want, check.Verdict)
			assert.Equal(t, tt.status, check.StatusCode)
		})
	}
}

func TestResponseCheckErr(t *testing.T) {
	assert.NoError(t, CheckResponse(http.StatusOK, "").Err())
	assert.ErrorIs(t, CheckResponse(http.StatusFound, "/2023/leaderboard/private").Err(), ErrNotAMember)
	assert.ErrorIs(t, CheckResponse(http.StatusFound, "/2023/leaderboard").Err(), ErrInvalidSession)

	err := CheckResponse(http.StatusBadGateway, "").Err()
	var httpErr *HTTPError
	if assert.True(t, errors.As(err, &httpErr)) {
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	}
	assert.Contains(t, err.Error(), "502")
}

package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var ErrNotAMember = errors.New("you are not a member of the configured leaderboard")
var ErrInvalidSession = errors.New("an improper session cookie has been configured")

// HTTPError reports an upstream status that is neither success nor one of the
// recognised redirects.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("adventofcode returned unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type ResponseVerdict int

const (
	ResponseOK ResponseVerdict = iota
	ResponseNotAMember
	ResponseInvalidSession
	ResponseHTTPError
)

func (v ResponseVerdict) String() string {
	switch v {
	case ResponseOK:
		return "ok"
	case ResponseNotAMember:
		return "not_a_member"
	case ResponseInvalidSession:
		return "invalid_session"
	default:
		return "http_error"
	}
}

type ResponseCheck struct {
	Verdict    ResponseVerdict
	StatusCode int
}

func (c ResponseCheck) Err() error {
	switch c.Verdict {
	case ResponseOK:
		return nil
	case ResponseNotAMember:
		return ErrNotAMember
	case ResponseInvalidSession:
		return ErrInvalidSession
	default:
		return &HTTPError{StatusCode: c.StatusCode}
	}
}

// CheckResponse classifies an upstream reply. AoC answers a private leaderboard
// request with a 302 to the public leaderboard when the session is not a member,
// and to the leaderboard index when the cookie is not accepted at all.
func CheckResponse(status int, location string) ResponseCheck {
	check := ResponseCheck{Verdict: ResponseHTTPError, StatusCode: status}
	switch status {
	case http.StatusOK:
		check.Verdict = ResponseOK
	case http.StatusFound:
		segments := locationSegments(location)
		switch {
		case hasSuffix(segments, "leaderboard", "private"):
			check.Verdict = ResponseNotAMember
		case hasSuffix(segments, "leaderboard"):
			check.Verdict = ResponseInvalidSession
		}
	}
	return check
}

func locationSegments(location string) []string {
	path := location
	if u, err := url.Parse(location); err == nil {
		path = u.Path
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func hasSuffix(segments []string, suffix ...string) bool {
	if len(segments) < len(suffix) {
		return false
	}
	tail := segments[len(segments)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

package pkg

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidEvent = errors.New("invalid event")

// FirstEvent is the first year Advent of Code ran.
const FirstEvent = 2015

// eventZone approximates US Eastern time, where puzzles unlock. DST is ignored.
var eventZone = time.FixedZone("UTC-5", -5*60*60)

// CurrentEvent returns the running event during December, otherwise the last one.
func CurrentEvent(now time.Time) string {
	local := now.In(eventZone)
	if local.Month() == time.December {
		return strconv.Itoa(local.Year())
	}
	return strconv.Itoa(local.Year() - 1)
}

func ValidateEvent(event string, now time.Time) error {
	if len(event) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}

	year, err := strconv.Atoi(event)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}

	latest, _ := strconv.Atoi(CurrentEvent(now))
	if year < FirstEvent || year > latest {
		return fmt.Errorf("%w: %s is not between %d and %d", ErrInvalidEvent, event, FirstEvent, latest)
	}
	return nil
}

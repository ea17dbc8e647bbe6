package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentEvent(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"december", time.Date(2023, time.December, 10, 12, 0, 0, 0, time.UTC), "2023"},
		{"november", time.Date(2023, time.November, 30, 12, 0, 0, 0, time.UTC), "2022"},
		{"january", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "2023"},
		// 04:59 UTC on Dec 1 is still Nov 30 at UTC-5
		{"before unlock", time.Date(2023, time.December, 1, 4, 59, 0, 0, time.UTC), "2022"},
		{"at unlock", time.Date(2023, time.December, 1, 5, 0, 0, 0, time.UTC), "2023"},
		// 03:00 UTC on Jan 1 is still Dec 31 at UTC-5
		{"new year utc", time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC), "2023"},
		{"new year local", time.Date(2024, time.January, 1, 5, 0, 0, 0, time.UTC), "2023"},
		{"other zone", time.Date(2023, time.December, 1, 6, 0, 0, 0, time.FixedZone("CET", 3600)), "2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentEvent(tt.now))
		})
	}
}

func TestValidateEvent(t *testing.T) {
	now := time.Date(2023, time.December, 5, 12, 0, 0, 0, time.UTC)

	for _, event := range []string{"2015", "2020", "2023"} {
		assert.NoError(t, ValidateEvent(event, now), event)
	}

	for _, event := range []string{"", "2014", "2024", "20x3", "../2", "12345", "-201"} {
		assert.ErrorIs(t, ValidateEvent(event, now), ErrInvalidEvent, event)
	}
}

//go:build unit

package booking_test

import (
	"testing"
	"time"

	"fleet-rental/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWholeDaysInclusive(t *testing.T) {
	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int64
	}{
		{
			name:     "same day counts as one",
			start:    day(2026, 3, 2),
			end:      day(2026, 3, 2),
			expected: 1,
		},
		{
			name:     "both endpoints included",
			start:    day(2026, 3, 2),
			end:      day(2026, 3, 4),
			expected: 3,
		},
		{
			name:     "time of day is ignored",
			start:    time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC),
			end:      time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC),
			expected: 2,
		},
		{
			name:     "across a month boundary",
			start:    day(2026, 1, 30),
			end:      day(2026, 2, 2),
			expected: 4,
		},
		{
			name:     "across a leap day",
			start:    day(2028, 2, 28),
			end:      day(2028, 3, 1),
			expected: 3,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, booking.WholeDaysInclusive(c.start, c.end))
		})
	}
}

func TestTotalCostCents(t *testing.T) {
	t.Run("rate times inclusive day count", func(t *testing.T) {
		total := booking.TotalCostCents(8900, day(2026, 3, 2), day(2026, 3, 4))
		assert.Equal(t, int64(8900*3), total)
	})

	t.Run("one day minimum", func(t *testing.T) {
		total := booking.TotalCostCents(8900, day(2026, 3, 2), day(2026, 3, 2))
		assert.Equal(t, int64(8900), total)
	})
}

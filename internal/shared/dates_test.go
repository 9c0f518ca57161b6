package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayTruncates(t *testing.T) {
	instant := time.Date(2024, 3, 5, 17, 42, 9, 12345, time.UTC)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Day(instant))
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 23, 59, 0, 0, time.UTC)
	from, to := DayRange(start, end)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), to)
}

func TestOrDay(t *testing.T) {
	fallback := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), OrDay(time.Time{}, fallback))

	explicit := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), OrDay(explicit, fallback))
}

package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	loc, fallback := ResolveLocation("")
	assert.Equal(t, time.UTC, loc)
	assert.True(t, fallback)

	loc, fallback = ResolveLocation("not-a-zone")
	assert.Equal(t, time.UTC, loc)
	assert.True(t, fallback)

	loc, fallback = ResolveLocation("Europe/London")
	require.NotNil(t, loc)
	assert.Equal(t, "Europe/London", loc.String())
	assert.False(t, fallback)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-06", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("", time.UTC)
	assert.Error(t, err)

	_, err = ParseDate("01/06/2025", time.UTC)
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseClock("6pm")
	assert.Error(t, err)

	_, _, err = ParseClock("")
	assert.Error(t, err)
}

func TestCombineDateClock(t *testing.T) {
	ts, err := CombineDateClock("2025-01-06", "18:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC), ts)

	_, err = CombineDateClock("2025-01-06", "bad", time.UTC)
	assert.Error(t, err)

	_, err = CombineDateClock("bad", "18:00", time.UTC)
	assert.Error(t, err)
}

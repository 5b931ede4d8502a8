package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/internal/stats"
)

func TestCounterTimer(t *testing.T) {
	var c stats.Counter

	timer := c.Timer()
	time.Sleep(50 * time.Millisecond)
	timer.Stop()

	require.GreaterOrEqual(t, c.Micros(), uint64(40_000))
}

func TestCounterIsEmpty(t *testing.T) {
	var c stats.Counter
	require.True(t, c.IsEmpty())

	c.IncBytes(1)
	require.False(t, c.IsEmpty())
}

func TestStatsStringOmitsEmptyCounters(t *testing.T) {
	s := stats.Current()
	require.NotContains(t, s.String(), "upload:")
}

package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timely-lab/timely-admin/internal/core/record"
)

var tokyo = time.FixedZone("JST", 9*3600)

func signups(times ...interface{}) record.Snapshot {
	fields := make([]map[string]interface{}, 0, len(times))
	for _, ts := range times {
		fields = append(fields, map[string]interface{}{"createdAt": ts})
	}
	return snapshotOf("users", fields...)
}

func TestDailySeries_SparseBuckets(t *testing.T) {
	day0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	snap := signups(
		day0,
		day0.Add(3*time.Hour).Format(time.RFC3339),
		day0.Add(48*time.Hour),
	)
	w := Window{Days: 7, Now: day0.Add(72 * time.Hour), Location: time.UTC}

	got := DailySeries(snap, "createdAt", w)

	require.Equal(t, []Bucket{
		{Day: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Count: 2},
		{Day: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), Count: 1},
	}, got)
}

func TestDailySeries_WindowBoundsAndOrder(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	snap := signups(
		now.Add(-1*time.Hour),
		now.Add(-10*24*time.Hour), // before the window
		now.Add(-3*24*time.Hour),  // exactly at the cutoff, excluded
		now.Add(-3*24*time.Hour+time.Second),
		now.Add(time.Hour), // in the future
		now,                // upper bound is inclusive
		now.Add(-2*24*time.Hour),
	)
	w := Window{Days: 3, Now: now, Location: time.UTC}

	got := DailySeries(snap, "createdAt", w)

	require.Len(t, got, 3)
	total := 0
	// Buckets carry local-midnight labels, so the oldest may start before the cutoff itself.
	lowest := DayFor(w.Cutoff(), time.UTC)
	for i, b := range got {
		total += b.Count
		require.False(t, b.Day.Before(lowest))
		require.False(t, b.Day.After(now))
		if i > 0 {
			require.True(t, got[i-1].Day.Before(b.Day))
		}
	}
	require.Equal(t, 4, total)
}

func TestDailySeries_GroupsByLocalDay(t *testing.T) {
	// 20:00 UTC is already the next day in Tokyo.
	snap := signups(
		"2025-03-14T20:00:00Z",
		"2025-03-14T10:00:00Z",
	)
	w := Window{Days: 5, Now: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), Location: tokyo}

	got := DailySeries(snap, "createdAt", w)

	require.Equal(t, []Bucket{
		{Day: time.Date(2025, 3, 14, 0, 0, 0, 0, tokyo), Count: 1},
		{Day: time.Date(2025, 3, 15, 0, 0, 0, 0, tokyo), Count: 1},
	}, got)
}

func TestDailySeries_SkipsAbsentTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	snap := signups(nil, "yesterday", 12345, now.Add(-time.Hour))

	got := DailySeries(snap, "createdAt", Window{Days: 1, Now: now, Location: time.UTC})

	require.Equal(t, []Bucket{{Day: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), Count: 1}}, got)
}

func TestDailySeries_NonPositiveWindowIsEmpty(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	snap := signups(now, now.Add(-time.Hour))

	for _, days := range []int{0, -4} {
		got := DailySeries(snap, "createdAt", Window{Days: days, Now: now, Location: time.UTC})
		require.NotNil(t, got)
		require.Empty(t, got)
	}
}

func TestDailySeries_IsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	snap := signups(now.Add(-time.Hour), now.Add(-30*time.Hour), now.Add(-50*time.Hour), now.Add(-30*time.Hour))
	w := Window{Days: 7, Now: now, Location: tokyo}

	first := DailySeries(snap, "createdAt", w)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, DailySeries(snap, "createdAt", w))
	}
	require.Equal(t, 4, snap.Len())
}

func TestDayFor(t *testing.T) {
	ts := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	cet := time.FixedZone("CET", 3600)

	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), DayFor(ts, time.UTC))
	require.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, cet), DayFor(ts, cet))
}

func TestDistribution(t *testing.T) {
	snap := snapshotOf("reports",
		map[string]interface{}{"reason": "spam"},
		map[string]interface{}{"reason": "abuse"},
		map[string]interface{}{"reason": "spam"},
		map[string]interface{}{"reason": nil},
		map[string]interface{}{},
		map[string]interface{}{"reason": "fake"},
	)

	require.Equal(t, []Group{
		{Value: "spam", Count: 2},
		{Value: "abuse", Count: 1},
		{Value: "fake", Count: 1},
	}, Distribution(snap, "reason"))

	require.Empty(t, Distribution(record.Empty("reports", 10, time.Time{}), "reason"))
}

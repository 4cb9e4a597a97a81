package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_AttachesID(t *testing.T) {
	fields := map[string]interface{}{"id": "stale", "name": "ada"}
	r := New("doc-1", fields)

	require.Equal(t, "doc-1", r.ID())
	require.Equal(t, "stale", fields["id"], "input map must not be modified")

	name, ok := r.String("name")
	require.True(t, ok)
	require.Equal(t, "ada", name)
}

func TestRecord_Accessors(t *testing.T) {
	r := Record{
		"id":        "u1",
		"status":    "accepted",
		"count":     float64(3),
		"details":   nil,
		"createdAt": "2025-01-02T03:04:05Z",
		"broken":    "not a time",
	}

	_, ok := r.Get("details")
	require.False(t, ok, "null counts as absent")

	_, ok = r.String("count")
	require.False(t, ok, "wrong type counts as absent")

	_, ok = r.String("missing")
	require.False(t, ok)

	require.Equal(t, "3", r.Text("count"))
	require.Equal(t, "", r.Text("missing"))

	ts, ok := r.Time("createdAt", time.UTC)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), ts)

	_, ok = r.Time("broken", time.UTC)
	require.False(t, ok)
	_, ok = r.Time("missing", time.UTC)
	require.False(t, ok)
}

func TestNewSnapshot_RespectsLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{New("a", nil), New("b", nil), New("c", nil)}

	tests := []struct {
		name    string
		limit   int
		wantLen int
	}{
		{name: "limit above size", limit: 10, wantLen: 3},
		{name: "limit equal size", limit: 3, wantLen: 3},
		{name: "limit below size", limit: 2, wantLen: 2},
		{name: "zero limit", limit: 0, wantLen: 0},
		{name: "negative limit", limit: -5, wantLen: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := NewSnapshot("users", tc.limit, now, records)
			require.Equal(t, tc.wantLen, snap.Len())
			require.LessOrEqual(t, snap.Len(), snap.Limit())
		})
	}
}

func TestSnapshot_IsImmutable(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{New("a", nil), New("b", nil)}
	snap := NewSnapshot("users", 5, now, records)

	records[0] = New("mutated", nil)
	require.Equal(t, "a", snap.At(0).ID())

	out := snap.Records()
	out[1] = New("mutated", nil)
	require.Equal(t, "b", snap.At(1).ID())
}

func TestSnapshot_FilterPreservesOrder(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := NewSnapshot("reports", 10, now, []Record{
		New("r1", map[string]interface{}{"keep": true}),
		New("r2", map[string]interface{}{"keep": false}),
		New("r3", map[string]interface{}{"keep": true}),
	})

	filtered := snap.Filter(func(r Record) bool {
		v, _ := r.Get("keep")
		return v == true
	})

	require.Equal(t, 3, snap.Len())
	require.Equal(t, 2, filtered.Len())
	require.Equal(t, "r1", filtered.At(0).ID())
	require.Equal(t, "r3", filtered.At(1).ID())
	require.Equal(t, "reports", filtered.Collection())

	found, ok := snap.Find(func(r Record) bool { return r.ID() == "r2" })
	require.True(t, ok)
	require.Equal(t, "r2", found.ID())
}

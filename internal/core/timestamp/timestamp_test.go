package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeIn_Valid(t *testing.T) {
	ref := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	berlin := time.FixedZone("CET", 3600)

	tests := []struct {
		name string
		raw  interface{}
		want time.Time
	}{
		{name: "time value", raw: ref, want: ref},
		{name: "time pointer", raw: &ref, want: ref},
		{name: "time in other zone", raw: ref.In(berlin), want: ref},
		{name: "mongo datetime", raw: primitive.NewDateTimeFromTime(ref), want: ref},
		{name: "mongo timestamp", raw: primitive.Timestamp{T: uint32(ref.Unix()), I: 1}, want: ref},
		{name: "firestore json export", raw: map[string]interface{}{"_seconds": float64(ref.Unix()), "_nanoseconds": float64(0)}, want: ref},
		{name: "firestore int seconds", raw: map[string]interface{}{"_seconds": ref.Unix()}, want: ref},
		{name: "iso with Z", raw: "2025-03-14T09:26:53Z", want: ref},
		{name: "iso with offset", raw: "2025-03-14T10:26:53+01:00", want: ref},
		{name: "iso with fraction", raw: "2025-03-14T09:26:53.250Z", want: ref.Add(250 * time.Millisecond)},
		{name: "iso with space separator", raw: "2025-03-14 09:26:53+00:00", want: ref},
		{name: "surrounding whitespace", raw: "  2025-03-14T09:26:53Z ", want: ref},
		{name: "no offset uses location", raw: "2025-03-14T10:26:53", want: ref},
		{name: "date only uses location", raw: "2025-03-14", want: time.Date(2025, 3, 13, 23, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeIn(tc.raw, berlin)
			require.True(t, ok)
			require.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
			require.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalizeIn_Invalid(t *testing.T) {
	var nilTime *time.Time

	tests := []struct {
		name string
		raw  interface{}
	}{
		{name: "nil", raw: nil},
		{name: "nil time pointer", raw: nilTime},
		{name: "zero time", raw: time.Time{}},
		{name: "empty string", raw: ""},
		{name: "garbage string", raw: "yesterday-ish"},
		{name: "half a date", raw: "2025-13-45T99:00:00Z"},
		{name: "double zulu", raw: "2025-03-14T09:26:53ZZ"},
		{name: "integer", raw: 1710408413},
		{name: "float", raw: 1.5},
		{name: "bool", raw: true},
		{name: "slice", raw: []interface{}{"2025-03-14"}},
		{name: "unrelated map", raw: map[string]interface{}{"seconds": 10}},
		{name: "fractional seconds map", raw: map[string]interface{}{"_seconds": 1.5}},
		{name: "nanos out of range", raw: map[string]interface{}{"_seconds": 10, "_nanoseconds": 2_000_000_000}},
		{name: "zero mongo timestamp", raw: primitive.Timestamp{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				got, ok := NormalizeIn(tc.raw, time.UTC)
				require.False(t, ok)
				require.True(t, got.IsZero())
			})
		})
	}
}

func TestNormalize_ZuluEqualsExplicitOffset(t *testing.T) {
	inputs := []string{
		"2024-01-01T00:00:00",
		"2024-06-30T23:59:59.999",
		"1999-12-31T12:00:00.123456789",
	}

	for _, in := range inputs {
		zulu, okZ := Normalize(in + "Z")
		explicit, okO := Normalize(in + "+00:00")
		require.True(t, okZ, in)
		require.True(t, okO, in)
		require.True(t, zulu.Equal(explicit), in)
	}
}

func TestNormalizeIn_NilLocationFallsBackToLocal(t *testing.T) {
	got, ok := NormalizeIn("2025-03-14T09:26:53Z", nil)
	require.True(t, ok)
	require.Equal(t, int64(1741944413), got.Unix())
}

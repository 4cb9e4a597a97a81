package fetch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBounds_Clamp(t *testing.T) {
	b := Bounds{Default: 100, Max: 500}

	tests := []struct {
		name      string
		requested int
		given     bool
		want      int
	}{
		{name: "omitted uses default", requested: 0, given: false, want: 100},
		{name: "explicit zero stays zero", requested: 0, given: true, want: 0},
		{name: "negative clamps to zero", requested: -3, given: true, want: 0},
		{name: "within range", requested: 250, given: true, want: 250},
		{name: "above max", requested: 10_000, given: true, want: 500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, b.Clamp(tc.requested, tc.given))
		})
	}

	require.Equal(t, 10_000, Bounds{Default: 1}.Clamp(10_000, true))
}

func TestBounds_Parse(t *testing.T) {
	b := Bounds{Default: 30, Max: 365}

	n, err := b.Parse("")
	require.NoError(t, err)
	require.Equal(t, 30, n)

	n, err = b.Parse("900")
	require.NoError(t, err)
	require.Equal(t, 365, n)

	_, err = b.Parse("ten")
	require.Error(t, err)
}

package fetch

import (
	"fmt"
	"strconv"
)

// Bounds holds the operator-facing range for a per-request parameter such as a
// document limit or a window in days.
type Bounds struct {
	Default int
	Max     int
}

// Clamp returns the default when the parameter was omitted, otherwise requested
// limited to [0, Max]. A non-positive Max disables the upper bound.
func (b Bounds) Clamp(requested int, given bool) int {
	if !given {
		requested = b.Default
	}
	if requested < 0 {
		return 0
	}
	if b.Max > 0 && requested > b.Max {
		return b.Max
	}
	return requested
}

// Parse reads raw as an integer and clamps it. An empty raw means omitted.
func (b Bounds) Parse(raw string) (int, error) {
	if raw == "" {
		return b.Clamp(0, false), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	return b.Clamp(n, true), nil
}

// Package timestamp converts the timestamp encodings found in stored documents into time.Time.
package timestamp

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Layouts tried, in order, for strings that carry an explicit offset.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Layouts tried for strings without an offset; these are read in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize is NormalizeIn with time.Local as the location for offset-less strings.
func Normalize(raw interface{}) (time.Time, bool) {
	return NormalizeIn(raw, time.Local)
}

// NormalizeIn converts raw into a UTC time.Time. The second result is false when raw is
// missing, of an unsupported type, or a string that is not ISO-8601. It never panics.
//
// Accepted encodings: time.Time, *time.Time, Mongo DateTime and Timestamp, Firestore JSON
// exports ({"_seconds": n, "_nanoseconds": n}) and ISO-8601 strings, where a trailing "Z"
// means "+00:00".
func NormalizeIn(raw interface{}, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return nonZero(v)
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return nonZero(*v)
	case primitive.DateTime:
		return nonZero(v.Time())
	case primitive.Timestamp:
		if v.T == 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(v.T), 0).UTC(), true
	case map[string]interface{}:
		return fromSecondsMap(v)
	case string:
		return parseISO(v, loc)
	default:
		return time.Time{}, false
	}
}

func nonZero(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func parseISO(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// fromSecondsMap reads the {"_seconds", "_nanoseconds"} shape Firestore uses when a
// timestamp is serialised to JSON.
func fromSecondsMap(m map[string]interface{}) (time.Time, bool) {
	secs, ok := wholeNumber(m["_seconds"])
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := wholeNumber(m["_nanoseconds"])
	if nanos < 0 || nanos >= int64(time.Second) {
		return time.Time{}, false
	}
	return time.Unix(secs, nanos).UTC(), true
}

func wholeNumber(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

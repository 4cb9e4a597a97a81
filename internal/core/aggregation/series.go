package aggregation

import (
	"sort"
	"time"

	"github.com/timely-lab/timely-admin/internal/core/record"
)

// DayFor truncates t to local midnight of its calendar day in loc.
// Example: DayFor(2025-03-14T23:30:00Z, UTC+1) → 2025-03-15T00:00:00+01:00
func DayFor(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// Cutoff returns the exclusive lower bound of w.
func (w Window) Cutoff() time.Time {
	days := w.Days
	if days < 0 {
		days = 0
	}
	return w.Now.Add(-time.Duration(days) * 24 * time.Hour)
}

// DailySeries counts records per local calendar day whose field normalizes to a time
// t with cutoff < t <= now. Buckets are chronological and only days with at least one
// record appear. Records without a usable timestamp are skipped.
func DailySeries(snap record.Snapshot, field string, w Window) []Bucket {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	if w.Days <= 0 {
		return []Bucket{}
	}
	cutoff := w.Cutoff()

	counts := make(map[int64]int)
	days := make(map[int64]time.Time)
	for i := 0; i < snap.Len(); i++ {
		t, ok := snap.At(i).Time(field, loc)
		if !ok || !t.After(cutoff) || t.After(w.Now) {
			continue
		}
		day := DayFor(t, loc)
		key := day.Unix()
		counts[key]++
		days[key] = day
	}

	out := make([]Bucket, 0, len(counts))
	for key, n := range counts {
		out = append(out, Bucket{Day: days[key], Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// Distribution counts records per string value of field. Records without the field
// are skipped. Groups are ordered by count descending, then value ascending.
func Distribution(snap record.Snapshot, field string) []Group {
	counts := make(map[string]int)
	for i := 0; i < snap.Len(); i++ {
		v := snap.At(i).Text(field)
		if v == "" {
			continue
		}
		counts[v]++
	}

	out := make([]Group, 0, len(counts))
	for v, n := range counts {
		out = append(out, Group{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

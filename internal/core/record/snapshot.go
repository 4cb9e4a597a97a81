package record

import "time"

// Snapshot is the bounded, point-in-time result of reading one collection.
// It is never modified after construction; filtering produces a new Snapshot.
type Snapshot struct {
	collection string
	limit      int
	fetchedAt  time.Time
	records    []Record
}

// NewSnapshot builds a snapshot, truncating records to limit so Len() <= limit always holds.
// A negative limit is treated as zero.
func NewSnapshot(collection string, limit int, fetchedAt time.Time, records []Record) Snapshot {
	if limit < 0 {
		limit = 0
	}
	if len(records) > limit {
		records = records[:limit]
	}
	owned := make([]Record, len(records))
	copy(owned, records)
	return Snapshot{
		collection: collection,
		limit:      limit,
		fetchedAt:  fetchedAt,
		records:    owned,
	}
}

// Empty returns a snapshot with no records.
func Empty(collection string, limit int, fetchedAt time.Time) Snapshot {
	return NewSnapshot(collection, limit, fetchedAt, nil)
}

func (s Snapshot) Collection() string   { return s.collection }
func (s Snapshot) Limit() int           { return s.limit }
func (s Snapshot) FetchedAt() time.Time { return s.fetchedAt }
func (s Snapshot) Len() int             { return len(s.records) }

// At returns the i-th record.
func (s Snapshot) At(i int) Record { return s.records[i] }

// Records returns a copy of the record slice. The records themselves are shared and
// must be treated as read-only.
func (s Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Filter returns a new snapshot holding the records for which keep is true, in order.
func (s Snapshot) Filter(keep func(Record) bool) Snapshot {
	kept := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	return Snapshot{
		collection: s.collection,
		limit:      s.limit,
		fetchedAt:  s.fetchedAt,
		records:    kept,
	}
}

// Find returns the first record for which match is true.
func (s Snapshot) Find(match func(Record) bool) (Record, bool) {
	for _, r := range s.records {
		if match(r) {
			return r, true
		}
	}
	return nil, false
}

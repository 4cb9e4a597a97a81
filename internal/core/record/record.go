// Package record holds the schemaless document view the dashboard works on.
package record

import (
	"fmt"
	"time"

	"github.com/timely-lab/timely-admin/internal/core/timestamp"
)

// IDField is the field every fetched record carries with the store-assigned identifier.
const IDField = "id"

// Record is a loosely-typed document. Every accessor has an explicit "absent" result,
// so a missing or wrong-typed field is never confused with a zero value.
type Record map[string]interface{}

// New copies fields and attaches id under IDField. The id always wins over a stored "id".
func New(id string, fields map[string]interface{}) Record {
	r := make(Record, len(fields)+1)
	for k, v := range fields {
		r[k] = v
	}
	r[IDField] = id
	return r
}

// ID returns the store-assigned identifier.
func (r Record) ID() string {
	id, _ := r.String(IDField)
	return id
}

// Get returns the raw value of field. ok is false when the field is absent or null.
func (r Record) Get(field string) (interface{}, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns field as a string. ok is false when absent or not a string.
func (r Record) String(field string) (string, bool) {
	v, ok := r.Get(field)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Text renders field for display and search: strings as-is, scalars via fmt.
// Absent fields render as "".
func (r Record) Text(field string) string {
	v, ok := r.Get(field)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// Time normalizes field into a UTC time. ok is false when absent or unparseable.
func (r Record) Time(field string, loc *time.Location) (time.Time, bool) {
	v, ok := r.Get(field)
	if !ok {
		return time.Time{}, false
	}
	return timestamp.NormalizeIn(v, loc)
}

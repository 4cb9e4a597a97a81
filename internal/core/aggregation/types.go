package aggregation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported KPI operators.
const (
	OpCount      = "count"
	OpCountWhere = "count_where"
	OpRatio      = "ratio"
)

// KPIDefinition describes one summary number derived from a collection snapshot.
// Field and Value form the exact-match predicate used by count_where and ratio.
type KPIDefinition struct {
	Name       string `yaml:"name" json:"name"`
	Label      string `yaml:"label" json:"label"`
	Collection string `yaml:"collection" json:"collection"`
	Operator   string `yaml:"operator" json:"operator"`
	Field      string `yaml:"field" json:"field,omitempty"`
	Value      string `yaml:"value" json:"value,omitempty"`
}

// KPI is a computed value for one definition.
type KPI struct {
	Name       string          `json:"name"`
	Label      string          `json:"label"`
	Collection string          `json:"collection"`
	Value      decimal.Decimal `json:"value"`
}

// KPISet holds computed KPIs in definition order.
type KPISet []KPI

// Get returns the value of the named KPI.
func (s KPISet) Get(name string) (decimal.Decimal, bool) {
	for _, k := range s {
		if k.Name == name {
			return k.Value, true
		}
	}
	return decimal.Zero, false
}

// Bucket is the number of records whose timestamp falls on Day (local midnight).
type Bucket struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// Group is the number of records sharing one value of a field.
type Group struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Window is a trailing range of Days ending at Now. Days are grouped in Location;
// a nil Location means time.Local.
type Window struct {
	Days     int
	Now      time.Time
	Location *time.Location
}

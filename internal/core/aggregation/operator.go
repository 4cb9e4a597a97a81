package aggregation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/timely-lab/timely-admin/internal/core/record"
)

// Operator defines how a KPI is derived from a snapshot.
// To add a new operator: implement this interface and register it in Operators.
type Operator interface {
	// Validate rejects a definition the operator cannot compute.
	Validate(def KPIDefinition) error

	// Compute derives the KPI value. An empty snapshot yields zero.
	Compute(def KPIDefinition, snap record.Snapshot) decimal.Decimal
}

// Operators is the registry of all supported KPI operators.
var Operators = map[string]Operator{
	OpCount:      countOp{},
	OpCountWhere: countWhereOp{},
	OpRatio:      ratioOp{},
}

// countOp counts every record in the snapshot.
type countOp struct{}

func (countOp) Validate(KPIDefinition) error { return nil }

func (countOp) Compute(_ KPIDefinition, snap record.Snapshot) decimal.Decimal {
	return decimal.NewFromInt(int64(snap.Len()))
}

// countWhereOp counts records whose field equals value.
type countWhereOp struct{}

func (countWhereOp) Validate(def KPIDefinition) error { return requirePredicate(def) }

func (countWhereOp) Compute(def KPIDefinition, snap record.Snapshot) decimal.Decimal {
	return decimal.NewFromInt(int64(countMatching(snap, def.Field, def.Value)))
}

// ratioOp is the share of matching records as a percentage, one decimal place.
type ratioOp struct{}

func (ratioOp) Validate(def KPIDefinition) error { return requirePredicate(def) }

func (ratioOp) Compute(def KPIDefinition, snap record.Snapshot) decimal.Decimal {
	return Percent(countMatching(snap, def.Field, def.Value), snap.Len())
}

func requirePredicate(def KPIDefinition) error {
	if def.Field == "" {
		return fmt.Errorf("operator %q requires a field", def.Operator)
	}
	if def.Value == "" {
		return fmt.Errorf("operator %q requires a value", def.Operator)
	}
	return nil
}

func countMatching(snap record.Snapshot, field, value string) int {
	n := 0
	for i := 0; i < snap.Len(); i++ {
		if v, ok := snap.At(i).String(field); ok && v == value {
			n++
		}
	}
	return n
}

// Percent returns part/total*100 rounded to one decimal place, or zero when total is zero.
func Percent(part, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

package aggregation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/timely-lab/timely-admin/internal/core/record"
)

// DefaultKPIs returns the built-in overview metrics.
func DefaultKPIs() []KPIDefinition {
	return []KPIDefinition{
		{Name: "total_users", Label: "Total users", Collection: "users", Operator: OpCount},
		{Name: "total_events", Label: "Total events", Collection: "events", Operator: OpCount},
		{Name: "accepted_friendships", Label: "Accepted friendships", Collection: "friendships", Operator: OpCountWhere, Field: "status", Value: "accepted"},
		{Name: "pending_reports", Label: "Pending reports", Collection: "reports", Operator: OpCountWhere, Field: "status", Value: "pending_review"},
		{Name: "pending_proposals", Label: "Pending proposals", Collection: "eventProposals", Operator: OpCountWhere, Field: "status", Value: "pending"},
		{Name: "report_resolution_rate", Label: "Resolved reports (%)", Collection: "reports", Operator: OpRatio, Field: "status", Value: "resolved"},
	}
}

// ValidateDefinition checks the definition has a name, a collection and a known operator.
func ValidateDefinition(def KPIDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("kpi: name must not be empty")
	}
	if def.Collection == "" {
		return fmt.Errorf("kpi %q: collection must not be empty", def.Name)
	}
	op, ok := Operators[def.Operator]
	if !ok {
		return fmt.Errorf("kpi %q: unsupported operator %q", def.Name, def.Operator)
	}
	if err := op.Validate(def); err != nil {
		return fmt.Errorf("kpi %q: %w", def.Name, err)
	}
	return nil
}

// ComputeKPIs evaluates defs against snapshots keyed by collection name.
// A missing snapshot counts as empty, so its KPIs are zero.
func ComputeKPIs(defs []KPIDefinition, snapshots map[string]record.Snapshot) KPISet {
	out := make(KPISet, 0, len(defs))
	for _, def := range defs {
		value := decimal.Zero
		if op, ok := Operators[def.Operator]; ok {
			value = op.Compute(def, snapshots[def.Collection])
		}
		label := def.Label
		if label == "" {
			label = def.Name
		}
		out = append(out, KPI{
			Name:       def.Name,
			Label:      label,
			Collection: def.Collection,
			Value:      value,
		})
	}
	return out
}

// Collections lists the distinct collections defs read from, in first-use order.
func Collections(defs []KPIDefinition) []string {
	seen := make(map[string]struct{}, len(defs))
	var out []string
	for _, def := range defs {
		if _, ok := seen[def.Collection]; ok {
			continue
		}
		seen[def.Collection] = struct{}{}
		out = append(out, def.Collection)
	}
	return out
}

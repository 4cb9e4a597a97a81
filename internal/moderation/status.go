package moderation

import "strings"

// Status is a report's position in the review workflow.
type Status string

const (
	StatusPendingReview  Status = "pending_review"
	StatusResolved       Status = "resolved"
	StatusDismissed      Status = "dismissed"
	StatusDismissedFalse Status = "dismissed_false"
)

// Statuses returns the canonical vocabulary in display order.
func Statuses() []Status {
	return []Status{StatusPendingReview, StatusResolved, StatusDismissed, StatusDismissedFalse}
}

// intended holds the edges offered to operators. Any status not listed is terminal.
var intended = map[Status][]Status{
	StatusPendingReview: {StatusResolved, StatusDismissed, StatusDismissedFalse},
}

// Transition is one edge of the review workflow.
type Transition struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}

// ParseStatus maps raw to a known status. Surrounding whitespace is ignored, case is not.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.TrimSpace(raw))
	return s, s.Valid()
}

// Valid reports whether s belongs to the vocabulary.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingReview, StatusResolved, StatusDismissed, StatusDismissedFalse:
		return true
	}
	return false
}

// IntendedTransitions returns the statuses an operator is offered from s.
// The store itself does not enforce these edges.
func IntendedTransitions(from Status) []Status {
	next := intended[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Workflow lists every intended edge.
func Workflow() []Transition {
	var out []Transition
	for _, from := range Statuses() {
		for _, to := range intended[from] {
			out = append(out, Transition{From: from, To: to})
		}
	}
	return out
}

// ParseStatuses parses a comma-separated list, skipping blanks.
// It returns the first unknown entry when one is present.
func ParseStatuses(csv string) ([]Status, string, bool) {
	out := []Status{}
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, ok := ParseStatus(part)
		if !ok {
			return nil, part, false
		}
		out = append(out, s)
	}
	return out, "", true
}

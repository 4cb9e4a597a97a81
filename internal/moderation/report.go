package moderation

import (
	"strings"
	"time"

	"github.com/timely-lab/timely-admin/internal/core/record"
)

// Field names of report and user documents.
const (
	fieldStatus         = "status"
	fieldReason         = "reason"
	fieldReporterID     = "reporterId"
	fieldReportedUserID = "reportedUserId"
	fieldDetails        = "details"
	fieldCreatedAt      = "createdAt"
	fieldUID            = "uid"
)

// Report is the typed view of a report document. Fields the document lacks stay
// empty; Details and CreatedAt are nil when absent or unusable.
type Report struct {
	ID             string     `json:"id"`
	Status         Status     `json:"status"`
	Reason         string     `json:"reason"`
	ReporterID     string     `json:"reporter_id"`
	ReportedUserID string     `json:"reported_user_id"`
	Details        *string    `json:"details"`
	CreatedAt      *time.Time `json:"created_at"`
}

// ParseReport builds a Report view over r. An unknown status is kept verbatim so it
// still shows up for the operator.
func ParseReport(r record.Record, loc *time.Location) Report {
	rep := Report{
		ID:             r.ID(),
		Status:         Status(r.Text(fieldStatus)),
		Reason:         r.Text(fieldReason),
		ReporterID:     r.Text(fieldReporterID),
		ReportedUserID: r.Text(fieldReportedUserID),
	}
	if d, ok := r.String(fieldDetails); ok && strings.TrimSpace(d) != "" {
		rep.Details = &d
	}
	if t, ok := r.Time(fieldCreatedAt, loc); ok {
		rep.CreatedAt = &t
	}
	return rep
}

// Profile is the subset of a user document shown next to a report.
type Profile struct {
	ID        string `json:"id"`
	UID       string `json:"uid,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ParseProfile builds a Profile view over a user record.
func ParseProfile(r record.Record) Profile {
	return Profile{
		ID:        r.ID(),
		UID:       r.Text(fieldUID),
		FirstName: r.Text("firstName"),
		LastName:  r.Text("lastName"),
		Username:  r.Text("username"),
		Email:     r.Text("email"),
	}
}

// ReportView is a report with the profiles of both parties when they were found.
type ReportView struct {
	Report
	Reporter        *Profile `json:"reporter,omitempty"`
	ReportedUser    *Profile `json:"reported_user,omitempty"`
	OfferedStatuses []Status `json:"offered_statuses"`
}

// profileIndex resolves user ids against both the uid field and the document id.
type profileIndex map[string]Profile

func indexProfiles(users record.Snapshot) profileIndex {
	idx := make(profileIndex, users.Len()*2)
	for i := 0; i < users.Len(); i++ {
		p := ParseProfile(users.At(i))
		if p.ID != "" {
			idx[p.ID] = p
		}
	}
	// uid wins over a colliding document id.
	for i := 0; i < users.Len(); i++ {
		p := ParseProfile(users.At(i))
		if p.UID != "" {
			idx[p.UID] = p
		}
	}
	return idx
}

func (idx profileIndex) lookup(id string) *Profile {
	if id == "" {
		return nil
	}
	p, ok := idx[id]
	if !ok {
		return nil
	}
	return &p
}

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timely-lab/timely-admin/internal/core/record"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"github.com/timely-lab/timely-admin/internal/fetch"
)

const (
	ReportsCollection = "reports"
	UsersCollection   = "users"
)

// ErrInvalidTransition is returned for an empty report id or a status outside the vocabulary.
var ErrInvalidTransition = errors.New("invalid transition")

// Cache is the read path shared with the dashboard. InvalidateAll runs after every
// successful write.
type Cache interface {
	fetch.Source
	InvalidateAll()
}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	Timeout         time.Duration
	Location        *time.Location
	DefaultStatuses []Status
	Limits          fetch.Bounds
}

// Service reads reports through the cache and writes status changes straight to the store.
type Service struct {
	store           storage.DocumentStore
	cache           Cache
	timeout         time.Duration
	loc             *time.Location
	defaultStatuses []Status
	limits          fetch.Bounds
}

func NewService(store storage.DocumentStore, cache Cache, opts Options) *Service {
	if store == nil {
		panic("moderation: store must not be nil")
	}
	if cache == nil {
		panic("moderation: cache must not be nil")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DefaultStatuses == nil {
		opts.DefaultStatuses = []Status{StatusPendingReview}
	}
	if opts.Limits.Default <= 0 {
		opts.Limits.Default = 100
	}
	return &Service{
		store:           store,
		cache:           cache,
		timeout:         opts.Timeout,
		loc:             opts.Location,
		defaultStatuses: opts.DefaultStatuses,
		limits:          opts.Limits,
	}
}

// RegisterRoutes registers the moderation routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/reports", s.ListReportsHandler)
	r.GET("/v1/reports/transitions", s.TransitionsHandler)
	r.POST("/v1/reports/:id/status", s.ApplyTransitionHandler)
}

// FilterByStatus keeps the records whose status is in statuses, preserving order.
// An empty set keeps nothing.
func FilterByStatus(snap record.Snapshot, statuses []Status) record.Snapshot {
	set := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		set[st] = struct{}{}
	}
	return snap.Filter(func(r record.Record) bool {
		v, ok := r.String(fieldStatus)
		if !ok {
			return false
		}
		_, keep := set[Status(v)]
		return keep
	})
}

// ApplyTransition sets the status of one report. On success every cached read is
// invalidated; on failure the cache is left as it was. Last write wins.
func (s *Service) ApplyTransition(ctx context.Context, reportID, newStatus string) error {
	id := strings.TrimSpace(reportID)
	if id == "" {
		return fmt.Errorf("%w: report id is required", ErrInvalidTransition)
	}
	status, ok := ParseStatus(newStatus)
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Update(ctx, ReportsCollection, id, map[string]interface{}{fieldStatus: string(status)}); err != nil {
		slog.Error("[Moderation] Status update failed", "report_id", id, "status", status, "error", err)
		return fmt.Errorf("update report %s: %w", id, err)
	}

	s.cache.InvalidateAll()
	slog.Info("[Moderation] Report status updated", "report_id", id, "status", status)
	return nil
}

// ReportQuery selects reports to list. Nil Statuses means the configured defaults;
// a nil Limit means the default limit.
type ReportQuery struct {
	Statuses []Status
	Limit    *int
}

// ReportList is the moderation queue for one render.
type ReportList struct {
	Reports  []ReportView    `json:"reports"`
	Matched  int             `json:"matched"`
	Scanned  int             `json:"scanned"`
	Statuses []Status        `json:"statuses"`
	Filter   []Status        `json:"filter"`
	Warnings []fetch.Warning `json:"warnings"`
}

// ListReports reads reports and users through the cache and returns the reports whose
// status is in the query, each with the profiles of both parties when found.
func (s *Service) ListReports(ctx context.Context, q ReportQuery) ReportList {
	statuses := q.Statuses
	if statuses == nil {
		statuses = s.defaultStatuses
	}
	limit := s.limits.Clamp(0, false)
	if q.Limit != nil {
		limit = s.limits.Clamp(*q.Limit, true)
	}

	collections := []string{ReportsCollection, UsersCollection}
	results := fetch.All(ctx, s.cache, collections, limit)
	reports := results[ReportsCollection].Snapshot
	profiles := indexProfiles(results[UsersCollection].Snapshot)

	filtered := FilterByStatus(reports, statuses)
	views := make([]ReportView, 0, filtered.Len())
	for i := 0; i < filtered.Len(); i++ {
		rep := ParseReport(filtered.At(i), s.loc)
		views = append(views, ReportView{
			Report:          rep,
			Reporter:        profiles.lookup(rep.ReporterID),
			ReportedUser:    profiles.lookup(rep.ReportedUserID),
			OfferedStatuses: IntendedTransitions(rep.Status),
		})
	}

	warnings := fetch.Warnings(collections, results)
	if warnings == nil {
		warnings = []fetch.Warning{}
	}
	return ReportList{
		Reports:  views,
		Matched:  len(views),
		Scanned:  reports.Len(),
		Statuses: Statuses(),
		Filter:   statuses,
		Warnings: warnings,
	}
}

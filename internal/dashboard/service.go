// Package dashboard composes the result cache and the aggregation engine into the
// read-only operator views: overview, series, distributions, the data explorer and
// user search.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	coreagg "github.com/timely-lab/timely-admin/internal/core/aggregation"
	"github.com/timely-lab/timely-admin/internal/core/record"
	"github.com/timely-lab/timely-admin/internal/fetch"
)

const (
	UsersCollection  = "users"
	EventsCollection = "events"

	defaultUsersField  = "createdAt"
	defaultEventsField = "start"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid dashboard query")
	// ErrUnknownCollection is returned for a collection that is not configured.
	ErrUnknownCollection = errors.New("unknown collection")
)

// userSearchFields are matched case-insensitively by SearchUsers.
var userSearchFields = []string{"firstName", "lastName", "email", "username"}

// Cache is the read path. Refresh drops everything it holds.
type Cache interface {
	fetch.Source
	InvalidateAll()
}

// Options configures the service. Collections maps each browsable collection to the
// field its daily series is built from.
type Options struct {
	Collections map[string]string
	KPIs        []coreagg.KPIDefinition
	Limits      fetch.Bounds
	Window      fetch.Bounds
	Location    *time.Location
}

type Service struct {
	cache       Cache
	collections map[string]string
	names       []string
	kpis        []coreagg.KPIDefinition
	limits      fetch.Bounds
	window      fetch.Bounds
	loc         *time.Location
	nowFn       func() time.Time
}

func NewService(cache Cache, opts Options) *Service {
	if cache == nil {
		panic("dashboard: cache must not be nil")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.KPIs == nil {
		opts.KPIs = coreagg.DefaultKPIs()
	}
	if opts.Limits.Default <= 0 {
		opts.Limits.Default = 100
	}
	if opts.Window.Default <= 0 {
		opts.Window.Default = 30
	}

	collections := make(map[string]string, len(opts.Collections))
	names := make([]string, 0, len(opts.Collections))
	for name, field := range opts.Collections {
		collections[name] = field
		names = append(names, name)
	}
	sort.Strings(names)

	return &Service{
		cache:       cache,
		collections: collections,
		names:       names,
		kpis:        opts.KPIs,
		limits:      opts.Limits,
		window:      opts.Window,
		loc:         opts.Location,
		nowFn:       time.Now,
	}
}

// RegisterRoutes registers the dashboard routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/overview", s.OverviewHandler)
	r.GET("/v1/series/:collection", s.SeriesHandler)
	r.GET("/v1/distribution/:collection", s.DistributionHandler)
	r.GET("/v1/collections", s.CollectionsHandler)
	r.GET("/v1/collections/:collection", s.ExploreHandler)
	r.GET("/v1/users/search", s.SearchUsersHandler)
	r.POST("/v1/refresh", s.RefreshHandler)
}

// Query carries the optional operator parameters. Nil means omitted.
type Query struct {
	Limit      *int
	WindowDays *int
}

// CollectionInfo describes one browsable collection.
type CollectionInfo struct {
	Name           string `json:"name"`
	TimestampField string `json:"timestamp_field"`
}

// Collections lists the configured collections in name order.
func (s *Service) Collections() []CollectionInfo {
	out := make([]CollectionInfo, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, CollectionInfo{Name: name, TimestampField: s.collections[name]})
	}
	return out
}

// Overview is the landing view.
type Overview struct {
	KPIs        coreagg.KPISet   `json:"kpis"`
	Signups     []coreagg.Bucket `json:"signups"`
	Events      []coreagg.Bucket `json:"events"`
	Counts      map[string]int   `json:"counts"`
	Limit       int              `json:"limit"`
	WindowDays  int              `json:"window_days"`
	GeneratedAt time.Time        `json:"generated_at"`
	Warnings    []fetch.Warning  `json:"warnings"`
}

// Overview fetches every configured collection plus those the KPIs need, then computes
// the KPI set and the signup and event series. Unreadable collections count as empty
// and are reported in Warnings.
func (s *Service) Overview(ctx context.Context, q Query) Overview {
	limit := s.clampLimit(q.Limit)
	days := s.clampWindow(q.WindowDays)

	collections := s.overviewCollections()
	results := fetch.All(ctx, s.cache, collections, limit)

	snapshots := make(map[string]record.Snapshot, len(results))
	counts := make(map[string]int, len(results))
	for name, res := range results {
		snapshots[name] = res.Snapshot
		counts[name] = res.Snapshot.Len()
	}

	now := s.nowFn()
	window := coreagg.Window{Days: days, Now: now, Location: s.loc}

	return Overview{
		KPIs:        coreagg.ComputeKPIs(s.kpis, snapshots),
		Signups:     coreagg.DailySeries(snapshots[UsersCollection], s.fieldOr(UsersCollection, defaultUsersField), window),
		Events:      coreagg.DailySeries(snapshots[EventsCollection], s.fieldOr(EventsCollection, defaultEventsField), window),
		Counts:      counts,
		Limit:       limit,
		WindowDays:  days,
		GeneratedAt: now,
		Warnings:    warningsOf(collections, results),
	}
}

// SeriesResult is one collection's daily series.
type SeriesResult struct {
	Collection string           `json:"collection"`
	Field      string           `json:"field"`
	Buckets    []coreagg.Bucket `json:"buckets"`
	Total      int              `json:"total"`
	Scanned    int              `json:"scanned"`
	Limit      int              `json:"limit"`
	WindowDays int              `json:"window_days"`
	Warnings   []fetch.Warning  `json:"warnings"`
}

// Series buckets the configured timestamp field of collection by local day.
func (s *Service) Series(ctx context.Context, collection string, q Query) (SeriesResult, error) {
	field, err := s.timestampField(collection)
	if err != nil {
		return SeriesResult{}, err
	}
	limit := s.clampLimit(q.Limit)
	days := s.clampWindow(q.WindowDays)

	res := s.cache.Fetch(ctx, collection, limit)
	buckets := coreagg.DailySeries(res.Snapshot, field, coreagg.Window{Days: days, Now: s.nowFn(), Location: s.loc})

	total := 0
	for _, b := range buckets {
		total += b.Count
	}

	return SeriesResult{
		Collection: collection,
		Field:      field,
		Buckets:    buckets,
		Total:      total,
		Scanned:    res.Snapshot.Len(),
		Limit:      limit,
		WindowDays: days,
		Warnings:   warningOf(res),
	}, nil
}

// DistributionResult counts the values of one field.
type DistributionResult struct {
	Collection string          `json:"collection"`
	Field      string          `json:"field"`
	Groups     []coreagg.Group `json:"groups"`
	Scanned    int             `json:"scanned"`
	Limit      int             `json:"limit"`
	Warnings   []fetch.Warning `json:"warnings"`
}

// Distribution groups the records of collection by the display value of field.
func (s *Service) Distribution(ctx context.Context, collection, field string, limit *int) (DistributionResult, error) {
	if _, err := s.timestampField(collection); err != nil {
		return DistributionResult{}, err
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return DistributionResult{}, invalidQueryf("field is required")
	}
	n := s.clampLimit(limit)

	res := s.cache.Fetch(ctx, collection, n)
	return DistributionResult{
		Collection: collection,
		Field:      field,
		Groups:     coreagg.Distribution(res.Snapshot, field),
		Scanned:    res.Snapshot.Len(),
		Limit:      n,
		Warnings:   warningOf(res),
	}, nil
}

// ExploreResult is a raw page of one collection.
type ExploreResult struct {
	Collection string          `json:"collection"`
	Records    []record.Record `json:"records"`
	Count      int             `json:"count"`
	Limit      int             `json:"limit"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Warnings   []fetch.Warning `json:"warnings"`
}

// Explore returns the records of a configured collection as fetched.
func (s *Service) Explore(ctx context.Context, collection string, limit *int) (ExploreResult, error) {
	if _, err := s.timestampField(collection); err != nil {
		return ExploreResult{}, err
	}
	n := s.clampLimit(limit)

	res := s.cache.Fetch(ctx, collection, n)
	return ExploreResult{
		Collection: collection,
		Records:    res.Snapshot.Records(),
		Count:      res.Snapshot.Len(),
		Limit:      n,
		FetchedAt:  res.Snapshot.FetchedAt(),
		Warnings:   warningOf(res),
	}, nil
}

// UserSearchResult holds the users matching one query.
type UserSearchResult struct {
	Query    string          `json:"query"`
	Users    []record.Record `json:"users"`
	Matched  int             `json:"matched"`
	Scanned  int             `json:"scanned"`
	Warnings []fetch.Warning `json:"warnings"`
}

// SearchUsers keeps the users whose first name, last name, email or username contains
// query, ignoring case. A blank query keeps every user.
func (s *Service) SearchUsers(ctx context.Context, query string, limit *int) UserSearchResult {
	query = strings.TrimSpace(query)
	needle := strings.ToLower(query)

	res := s.cache.Fetch(ctx, UsersCollection, s.clampLimit(limit))
	matches := res.Snapshot
	if needle != "" {
		matches = matches.Filter(func(r record.Record) bool {
			return matchesUser(r, needle)
		})
	}

	return UserSearchResult{
		Query:    query,
		Users:    matches.Records(),
		Matched:  matches.Len(),
		Scanned:  res.Snapshot.Len(),
		Warnings: warningOf(res),
	}
}

// Refresh drops every cached read so the next view hits the store.
func (s *Service) Refresh() {
	s.cache.InvalidateAll()
	slog.Info("[Dashboard] Cache cleared on operator request")
}

func matchesUser(r record.Record, needle string) bool {
	for _, field := range userSearchFields {
		if v := r.Text(field); v != "" && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func (s *Service) timestampField(collection string) (string, error) {
	field, ok := s.collections[collection]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return field, nil
}

func (s *Service) fieldOr(collection, fallback string) string {
	if field, ok := s.collections[collection]; ok && field != "" {
		return field
	}
	return fallback
}

// overviewCollections is the configured set followed by any extra KPI collections.
func (s *Service) overviewCollections() []string {
	out := append([]string(nil), s.names...)
	for _, name := range coreagg.Collections(s.kpis) {
		if _, ok := s.collections[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (s *Service) clampLimit(n *int) int {
	if n == nil {
		return s.limits.Clamp(0, false)
	}
	return s.limits.Clamp(*n, true)
}

func (s *Service) clampWindow(n *int) int {
	if n == nil {
		return s.window.Clamp(0, false)
	}
	return s.window.Clamp(*n, true)
}

func warningOf(res fetch.Result) []fetch.Warning {
	if res.Warning == nil {
		return []fetch.Warning{}
	}
	return []fetch.Warning{*res.Warning}
}

func warningsOf(collections []string, results map[string]fetch.Result) []fetch.Warning {
	if w := fetch.Warnings(collections, results); w != nil {
		return w
	}
	return []fetch.Warning{}
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	coreagg "github.com/timely-lab/timely-admin/internal/core/aggregation"
	"github.com/timely-lab/timely-admin/internal/moderation"
)

const envPrefix = "TIMELY_"

// Store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config represents the top-level application config plus resolved KPI definitions.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Log         LogConfig         `koanf:"log"`
	Store       StoreConfig       `koanf:"store"`
	Fetch       FetchConfig       `koanf:"fetch"`
	Cache       CacheConfig       `koanf:"cache"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Moderation  ModerationConfig  `koanf:"moderation"`

	// KPIs is populated by Load after reading aggregation.kpi_dir.
	KPIs []coreagg.KPIDefinition `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

type StoreConfig struct {
	Type string `koanf:"type"` // mongo | postgres | memory

	// mongo
	URI         string `koanf:"uri"`
	Database    string `koanf:"database"`
	MaxPoolSize uint64 `koanf:"max_pool_size"`

	// postgres
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`

	// memory
	FixturePath string `koanf:"fixture_path"`
}

type FetchConfig struct {
	Timeout      time.Duration `koanf:"timeout"`
	DefaultLimit int           `koanf:"default_limit"`
	MaxLimit     int           `koanf:"max_limit"`

	// Collections maps each browsable collection to its timestamp field.
	Collections map[string]string `koanf:"collections"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type AggregationConfig struct {
	KPIDir            string `koanf:"kpi_dir"`
	DefaultWindowDays int    `koanf:"default_window_days"`
	MaxWindowDays     int    `koanf:"max_window_days"`
	Timezone          string `koanf:"timezone"` // IANA name; empty means the process local zone
}

type ModerationConfig struct {
	DefaultStatuses []string `koanf:"default_statuses"`
}

// Location resolves the aggregation timezone.
func (c AggregationConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Statuses converts the configured default statuses.
func (c ModerationConfig) Statuses() []moderation.Status {
	out := make([]moderation.Status, 0, len(c.DefaultStatuses))
	for _, s := range c.DefaultStatuses {
		out = append(out, moderation.Status(s))
	}
	return out
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	switch c.Store.Type {
	case StoreMongo:
		if strings.TrimSpace(c.Store.URI) == "" {
			return fmt.Errorf("store.uri is required for store.type mongo")
		}
		if strings.TrimSpace(c.Store.Database) == "" {
			return fmt.Errorf("store.database is required for store.type mongo")
		}
	case StorePostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for store.type postgres")
		}
		if c.Store.MaxOpenConns <= 0 {
			return fmt.Errorf("store.max_open_conns must be > 0")
		}
		if c.Store.MaxIdleConns <= 0 {
			return fmt.Errorf("store.max_idle_conns must be > 0")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported store.type %q", c.Store.Type)
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxLimit <= 0 {
		return fmt.Errorf("fetch.max_limit must be > 0")
	}
	if c.Fetch.DefaultLimit < 0 || c.Fetch.DefaultLimit > c.Fetch.MaxLimit {
		return fmt.Errorf("fetch.default_limit must be between 0 and fetch.max_limit (%d)", c.Fetch.MaxLimit)
	}
	if len(c.Fetch.Collections) == 0 {
		return fmt.Errorf("fetch.collections must name at least one collection")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0")
	}

	if c.Aggregation.MaxWindowDays <= 0 {
		return fmt.Errorf("aggregation.max_window_days must be > 0")
	}
	if c.Aggregation.DefaultWindowDays < 0 || c.Aggregation.DefaultWindowDays > c.Aggregation.MaxWindowDays {
		return fmt.Errorf("aggregation.default_window_days must be between 0 and aggregation.max_window_days (%d)", c.Aggregation.MaxWindowDays)
	}
	if _, err := c.Aggregation.Location(); err != nil {
		return fmt.Errorf("invalid aggregation.timezone %q: %w", c.Aggregation.Timezone, err)
	}

	for _, s := range c.Moderation.DefaultStatuses {
		if !moderation.Status(s).Valid() {
			return fmt.Errorf("invalid moderation.default_statuses entry %q", s)
		}
	}

	return nil
}

// Load parses config from defaults, file and env, validates it, then loads KPI definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                      8080,
		"server.host":                      "0.0.0.0",
		"server.mode":                      "release",
		"log.level":                        "info",
		"log.format":                       "text",
		"store.type":                       StoreMemory,
		"store.database":                   "timely",
		"store.max_pool_size":              20,
		"store.max_open_conns":             10,
		"store.max_idle_conns":             10,
		"store.auto_migrate":               true,
		"store.fixture_path":               "./config/fixtures.yaml",
		"fetch.timeout":                    "20s",
		"fetch.default_limit":              100,
		"fetch.max_limit":                  1000,
		"fetch.collections.users":          "createdAt",
		"fetch.collections.events":         "start",
		"fetch.collections.friendships":    "createdAt",
		"fetch.collections.reports":        "createdAt",
		"fetch.collections.eventProposals": "createdAt",
		"fetch.collections.tasks":          "dueDate",
		"cache.ttl":                        "5m",
		"aggregation.kpi_dir":              "./config/kpis",
		"aggregation.default_window_days":  30,
		"aggregation.max_window_days":      365,
		"aggregation.timezone":             "",
		"moderation.default_statuses":      []string{string(moderation.StatusPendingReview)},
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Moderation.DefaultStatuses = splitList(cfg.Moderation.DefaultStatuses)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := coreagg.NewFileSystemDefinitionRepository(cfg.Aggregation.KPIDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi definitions: %w", err)
	}
	cfg.KPIs = repo.Definitions()

	return &cfg, nil
}

// envKey maps TIMELY_FETCH__DEFAULT_LIMIT to fetch.default_limit.
// Collection names keep their case: TIMELY_FETCH__COLLECTIONS__eventProposals.
func envKey(s string) string {
	parts := strings.Split(strings.TrimPrefix(s, envPrefix), "__")
	for i, p := range parts {
		if i > 0 && strings.EqualFold(parts[i-1], "collections") {
			continue
		}
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

// splitList expands comma-separated entries, which is how lists arrive from env vars.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

package config

import (
	"time"
)

// Config is the root configuration for a pricewatch instance.
type Config struct {
	TimeZone    string            `yaml:"time_zone"`
	Log         LogConfig         `yaml:"log"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Storage     StorageConfig     `yaml:"storage"`
	Poller      PollerConfig      `yaml:"poller"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Pages       []PageConfig      `yaml:"pages"`
	Admin       AdminConfig       `yaml:"admin"`

	// UnsetEnv lists ${VAR} references that were not set when the file was loaded.
	UnsetEnv []string `yaml:"-"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// MarketplaceConfig holds the card API settings.
type MarketplaceConfig struct {
	URLTemplate string        `yaml:"url_template"` // Must contain {id}
	Source      string        `yaml:"source"`       // Source tag written to the log
	PricePath   string        `yaml:"price_path"`   // JSONPath to the price in minor units
	Scale       int64         `yaml:"scale"`        // Minor units per major unit
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	UserAgent   string        `yaml:"user_agent"`
}

// Storage backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// StorageConfig selects and configures the table backend for articles and the price log.
type StorageConfig struct {
	Backend  string       `yaml:"backend"`
	Sheets   SheetsConfig `yaml:"sheets"`
	Postgres DBConfig     `yaml:"postgres"`
}

// SheetsConfig holds Google Sheets settings.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"` // Service account JSON
	ArticlesSheet   string `yaml:"articles_sheet"`
	LogSheet        string `yaml:"log_sheet"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Name          string `yaml:"name"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxConns      int    `yaml:"max_conns"`
	MinConns      int    `yaml:"min_conns"`
	ArticlesTable string `yaml:"articles_table"`
	LogTable      string `yaml:"log_table"`
}

// PollerConfig holds fetch orchestrator settings.
type PollerConfig struct {
	Concurrency int `yaml:"concurrency"` // Max concurrent article fetches per batch
}

// ScheduleConfig holds the periodic trigger settings.
type ScheduleConfig struct {
	Cron     string `yaml:"cron"` // Evaluated in TimeZone
	Disabled bool   `yaml:"disabled"`
}

// PageConfig describes a single product page watched by regular expression.
type PageConfig struct {
	Source  string `yaml:"source"`
	Product string `yaml:"product"`
	URL     string `yaml:"url"`
	Pattern string `yaml:"pattern"` // First capture group is the price in minor units
	Scale   int64  `yaml:"scale"`
}

// AdminConfig holds the HTTP admin/health server settings.
type AdminConfig struct {
	Port        int    `yaml:"port"`
	Token       string `yaml:"token"` // Bearer token for mutating endpoints; empty disables auth
	MetricsPath string `yaml:"metrics_path"`
}

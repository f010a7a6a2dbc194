package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestLoad(t *testing.T) {
	yaml := `
time_zone: Europe/Moscow
marketplace:
  url_template: https://card.example.test/detail?nm={id}
  timeout: 5s
storage:
  backend: sheets
  sheets:
    spreadsheet_id: sheet-123
    credentials_file: /etc/pricewatch/sa.json
pages:
  - source: ozon
    product: lamp-567765492
    url: https://www.ozon.ru/product/lamp-567765492
    pattern: '"price":"(\d+)"'
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.TimeZone != "Europe/Moscow" {
		t.Errorf("TimeZone = %q, want %q", cfg.TimeZone, "Europe/Moscow")
	}
	if cfg.Marketplace.URLTemplate != "https://card.example.test/detail?nm={id}" {
		t.Errorf("Marketplace.URLTemplate = %q", cfg.Marketplace.URLTemplate)
	}
	if cfg.Marketplace.Timeout != 5*time.Second {
		t.Errorf("Marketplace.Timeout = %v, want %v", cfg.Marketplace.Timeout, 5*time.Second)
	}
	if cfg.Storage.Sheets.SpreadsheetID != "sheet-123" {
		t.Errorf("Storage.Sheets.SpreadsheetID = %q, want %q", cfg.Storage.Sheets.SpreadsheetID, "sheet-123")
	}
	if len(cfg.Pages) != 1 || cfg.Pages[0].Pattern != `"price":"(\d+)"` {
		t.Errorf("Pages = %+v", cfg.Pages)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_ADMIN_TOKEN", "tok")

	yaml := `
storage:
  backend: postgres
  postgres:
    host: localhost
    name: pricewatch
    user: pricewatch
    password: ${TEST_DB_PASSWORD}
admin:
  token: ${TEST_ADMIN_TOKEN}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.Postgres.Password != "secret123" {
		t.Errorf("Storage.Postgres.Password = %q, want %q", cfg.Storage.Postgres.Password, "secret123")
	}
	if cfg.Admin.Token != "tok" {
		t.Errorf("Admin.Token = %q, want %q", cfg.Admin.Token, "tok")
	}
}

func TestLoadReportsUnsetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "x")

	yaml := `
marketplace:
  price_path: "$.data.products[0].salePriceU"
storage:
  postgres:
    user: ${TEST_SET_VAR}
    password: ${TEST_UNSET_PASSWORD_9F2}
admin:
  token: ${TEST_UNSET_PASSWORD_9F2}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.UnsetEnv) != 1 || cfg.UnsetEnv[0] != "TEST_UNSET_PASSWORD_9F2" {
		t.Errorf("UnsetEnv = %v, want [TEST_UNSET_PASSWORD_9F2]", cfg.UnsetEnv)
	}
	if cfg.Storage.Postgres.Password != "" {
		t.Errorf("Storage.Postgres.Password = %q, want empty", cfg.Storage.Postgres.Password)
	}
	if cfg.Marketplace.PricePath != "$.data.products[0].salePriceU" {
		t.Errorf("Marketplace.PricePath = %q, want JSONPath untouched", cfg.Marketplace.PricePath)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	yaml := `
marketplace:
  url_templat: https://card.example.test/detail?nm={id}
`
	path := writeTempFile(t, yaml)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "url_templat") {
		t.Fatalf("err = %v, want unknown field error naming url_templat", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := LoadWithDefaults(writeTempFile(t, ""))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Schedule.Cron != DefaultCron {
		t.Errorf("Schedule.Cron = %q, want default %q", cfg.Schedule.Cron, DefaultCron)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
storage:
  sheets:
    spreadsheet_id: sheet-123
    credentials_file: sa.json
pages:
  - source: ozon
    url: https://www.ozon.ru/product/x
    pattern: '"price":"(\d+)"'
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.TimeZone != DefaultTimeZone {
		t.Errorf("TimeZone = %q, want default %q", cfg.TimeZone, DefaultTimeZone)
	}
	if cfg.Marketplace.URLTemplate != DefaultURLTemplate {
		t.Errorf("Marketplace.URLTemplate = %q, want default", cfg.Marketplace.URLTemplate)
	}
	if cfg.Marketplace.Timeout != DefaultTimeout {
		t.Errorf("Marketplace.Timeout = %v, want default %v", cfg.Marketplace.Timeout, DefaultTimeout)
	}
	if cfg.Marketplace.Scale != DefaultScale {
		t.Errorf("Marketplace.Scale = %d, want default %d", cfg.Marketplace.Scale, DefaultScale)
	}
	if cfg.Marketplace.MaxRetries != 0 {
		t.Errorf("Marketplace.MaxRetries = %d, want 0", cfg.Marketplace.MaxRetries)
	}
	if cfg.Storage.Backend != BackendSheets {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSheets)
	}
	if cfg.Storage.Sheets.ArticlesSheet != DefaultArticlesSheet {
		t.Errorf("Storage.Sheets.ArticlesSheet = %q, want default %q", cfg.Storage.Sheets.ArticlesSheet, DefaultArticlesSheet)
	}
	if cfg.Storage.Postgres.Port != DefaultDBPort {
		t.Errorf("Storage.Postgres.Port = %d, want default %d", cfg.Storage.Postgres.Port, DefaultDBPort)
	}
	if cfg.Poller.Concurrency != DefaultConcurrency {
		t.Errorf("Poller.Concurrency = %d, want default %d", cfg.Poller.Concurrency, DefaultConcurrency)
	}
	if cfg.Schedule.Cron != DefaultCron {
		t.Errorf("Schedule.Cron = %q, want default %q", cfg.Schedule.Cron, DefaultCron)
	}
	if cfg.Pages[0].Scale != DefaultScale {
		t.Errorf("Pages[0].Scale = %d, want default %d", cfg.Pages[0].Scale, DefaultScale)
	}
	if cfg.Admin.Port != DefaultAdminPort {
		t.Errorf("Admin.Port = %d, want default %d", cfg.Admin.Port, DefaultAdminPort)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaulted config: %v", err)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	t.Setenv("GSHEET_ID", "sheet-123")

	cfg, err := LoadAndValidate(filepath.Join("..", "..", "configs", "pricewatch.example.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Storage.Sheets.ArticlesSheet != "Артикулы" {
		t.Errorf("Storage.Sheets.ArticlesSheet = %q", cfg.Storage.Sheets.ArticlesSheet)
	}
	if len(cfg.Pages) != 0 {
		t.Errorf("Pages = %+v, want none enabled by default", cfg.Pages)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Fatalf("err = %v, want read config file error", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{
			Storage: StorageConfig{
				Sheets: SheetsConfig{SpreadsheetID: "id", CredentialsFile: "sa.json"},
			},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "unknown time zone",
			mutate:  func(c *Config) { c.TimeZone = "Mars/Olympus" },
			wantErr: `time_zone "Mars/Olympus" is not a known zone`,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: `log.level "loud" is invalid`,
		},
		{
			name:    "template without placeholder",
			mutate:  func(c *Config) { c.Marketplace.URLTemplate = "https://card.wb.ru/detail" },
			wantErr: "marketplace.url_template must contain {id}",
		},
		{
			name:    "price path not jsonpath",
			mutate:  func(c *Config) { c.Marketplace.PricePath = "data.products" },
			wantErr: "marketplace.price_path must be a JSONPath starting with $",
		},
		{
			name:    "missing spreadsheet id",
			mutate:  func(c *Config) { c.Storage.Sheets.SpreadsheetID = "" },
			wantErr: "storage.sheets.spreadsheet_id is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "csv" },
			wantErr: `storage.backend must be sheets or postgres, got "csv"`,
		},
		{
			name: "missing postgres password",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Storage.Postgres.Host = "localhost"
				c.Storage.Postgres.Name = "db"
				c.Storage.Postgres.User = "user"
			},
			wantErr: "storage.postgres.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Storage.Postgres = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 2, MinConns: 5, ArticlesTable: "a", LogTable: "l"}
			},
			wantErr: "storage.postgres.min_conns (5) cannot exceed max_conns (2)",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Poller.Concurrency = 0 },
			wantErr: "poller.concurrency must be >= 1",
		},
		{
			name: "page pattern without group",
			mutate: func(c *Config) {
				c.Pages = []PageConfig{{Source: "ozon", URL: "https://x", Pattern: `"price":"\d+"`, Scale: 100}}
			},
			wantErr: "pages[0].pattern must have a capture group",
		},
		{
			name:    "admin port out of range",
			mutate:  func(c *Config) { c.Admin.Port = 70000 },
			wantErr: "admin.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want prefix %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

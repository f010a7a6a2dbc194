package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("time_zone %q is not a known zone: %w", c.TimeZone, err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level %q is invalid", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if !strings.Contains(c.Marketplace.URLTemplate, "{id}") {
		return errors.New("marketplace.url_template must contain {id}")
	}
	if !strings.HasPrefix(c.Marketplace.PricePath, "$") {
		return errors.New("marketplace.price_path must be a JSONPath starting with $")
	}
	if c.Marketplace.Scale < 1 {
		return errors.New("marketplace.scale must be >= 1")
	}
	if c.Marketplace.Timeout <= 0 {
		return errors.New("marketplace.timeout must be > 0")
	}
	if c.Marketplace.MaxRetries < 0 {
		return errors.New("marketplace.max_retries must be >= 0")
	}

	switch c.Storage.Backend {
	case BackendSheets:
		if err := c.Storage.Sheets.validate("storage.sheets"); err != nil {
			return err
		}
	case BackendPostgres:
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.backend must be %s or %s, got %q", BackendSheets, BackendPostgres, c.Storage.Backend)
	}

	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	for i, p := range c.Pages {
		if err := p.validate(fmt.Sprintf("pages[%d]", i)); err != nil {
			return err
		}
	}

	if c.Admin.Port < 1 || c.Admin.Port > 65535 {
		return fmt.Errorf("admin.port must be between 1 and 65535, got %d", c.Admin.Port)
	}

	return nil
}

func (s *SheetsConfig) validate(prefix string) error {
	if s.SpreadsheetID == "" {
		return fmt.Errorf("%s.spreadsheet_id is required", prefix)
	}
	if s.CredentialsFile == "" {
		return fmt.Errorf("%s.credentials_file is required", prefix)
	}
	if s.ArticlesSheet == s.LogSheet {
		return fmt.Errorf("%s.articles_sheet and log_sheet must differ", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	if db.ArticlesTable == db.LogTable {
		return fmt.Errorf("%s.articles_table and log_table must differ", prefix)
	}
	return nil
}

func (p *PageConfig) validate(prefix string) error {
	if p.Source == "" {
		return fmt.Errorf("%s.source is required", prefix)
	}
	if p.URL == "" {
		return fmt.Errorf("%s.url is required", prefix)
	}
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return fmt.Errorf("%s.pattern: %w", prefix, err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("%s.pattern must have a capture group", prefix)
	}
	if p.Scale < 1 {
		return fmt.Errorf("%s.scale must be >= 1", prefix)
	}
	return nil
}

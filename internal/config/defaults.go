package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTimeZone      = "Europe/Moscow"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultURLTemplate   = "https://card.wb.ru/cards/v1/detail?appType=1&curr=rub&dest=-1257786&nm={id}"
	DefaultSource        = "wb"
	DefaultPricePath     = "$.data.products[0].salePriceU"
	DefaultScale         = 100
	DefaultTimeout       = 10 * time.Second
	DefaultUserAgent     = "Mozilla/5.0"
	DefaultBackend       = BackendSheets
	DefaultArticlesSheet = "Артикулы"
	DefaultLogSheet      = "Sheet1"
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 4
	DefaultMinConns      = 1
	DefaultArticlesTable = "articles"
	DefaultLogTable      = "price_log"
	DefaultConcurrency   = 1
	DefaultCron          = "0 10 * * *"
	DefaultAdminPort     = 8080
	DefaultMetricsPath   = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.TimeZone == "" {
		c.TimeZone = DefaultTimeZone
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Marketplace defaults
	if c.Marketplace.URLTemplate == "" {
		c.Marketplace.URLTemplate = DefaultURLTemplate
	}
	if c.Marketplace.Source == "" {
		c.Marketplace.Source = DefaultSource
	}
	if c.Marketplace.PricePath == "" {
		c.Marketplace.PricePath = DefaultPricePath
	}
	if c.Marketplace.Scale == 0 {
		c.Marketplace.Scale = DefaultScale
	}
	if c.Marketplace.Timeout == 0 {
		c.Marketplace.Timeout = DefaultTimeout
	}
	if c.Marketplace.UserAgent == "" {
		c.Marketplace.UserAgent = DefaultUserAgent
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Sheets.ArticlesSheet == "" {
		c.Storage.Sheets.ArticlesSheet = DefaultArticlesSheet
	}
	if c.Storage.Sheets.LogSheet == "" {
		c.Storage.Sheets.LogSheet = DefaultLogSheet
	}
	applyDBDefaults(&c.Storage.Postgres)

	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultConcurrency
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCron
	}

	for i := range c.Pages {
		if c.Pages[i].Scale == 0 {
			c.Pages[i].Scale = DefaultScale
		}
	}

	if c.Admin.Port == 0 {
		c.Admin.Port = DefaultAdminPort
	}
	if c.Admin.MetricsPath == "" {
		c.Admin.MetricsPath = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
	if db.ArticlesTable == "" {
		db.ArticlesTable = DefaultArticlesTable
	}
	if db.LogTable == "" {
		db.LogTable = DefaultLogTable
	}
}

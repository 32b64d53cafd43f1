package shared

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	SQLiteDSN    string
	LeadStore    string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	KVBackend    string
	CRMURL       string
	CRMKey       string
	AnalyticsURL string
	Workers      int
	SiteConfig   string
	CatalogDir   string
	CacheTTL     time.Duration
	ToolTTL      time.Duration
}

func Load() Config {
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/essex?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		SQLiteDSN:    env("SQLITE_DSN", "sqlite://essex.db"),
		LeadStore:    env("LEAD_STORE", "mysql"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		KVBackend:    env("KV_BACKEND", "redis"),
		CRMURL:       env("CRM_WEBHOOK_URL", ""),
		CRMKey:       env("CRM_WEBHOOK_KEY", ""),
		AnalyticsURL: env("ANALYTICS_URL", ""),
		Workers:      atoi("BUILD_WORKERS", 8),
		SiteConfig:   env("SITE_CONFIG", ""),
		CatalogDir:   env("CATALOG_DIR", ""),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ToolTTL:      time.Duration(atoi("TOOL_STATE_TTL_SECONDS", 30*24*3600)) * time.Second,
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stockpeek/jysk-monitor/internal/models"
)

type Config struct {
	Browser  BrowserConfig
	Scraper  ScraperConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Alerts   AlertsConfig
	Telegram TelegramConfig
	Server   ServerConfig
	Logging  LoggingConfig

	Stores []models.StoreTarget
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
	UserAgent      string
}

type ScraperConfig struct {
	// City typed into the store selector to force a stable store list.
	City string

	SettleDelay     time.Duration
	ScanPasses      int
	ScanPassDelay   time.Duration
	TypeDelay       time.Duration
	ProductPauseMin time.Duration
	ProductPauseMax time.Duration
	NavRetries      int
	DebugCaptureDir string
	KeywordsOut     []string
	KeywordsIn      []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	// Addr empty means the cooldown gate runs on Postgres alone.
	Addr     string
	Password string
	DB       int
}

type AlertsConfig struct {
	Cooldown time.Duration

	// PercentMode switches the price trigger from the fixed 0.01
	// currency-unit floor to a relative threshold.
	PercentMode      bool
	PercentThreshold float64
}

type TelegramConfig struct {
	Enabled  bool
	BotToken string
	ChatID   int64
}

type ServerConfig struct {
	// Addr empty disables the ops HTTP server.
	Addr string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "fr-MA,fr;q=0.9,en;q=0.8"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Africa/Casablanca"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "fr-MA"),
			UserAgent:      getEnvOrDefault("BROWSER_USER_AGENT", defaultUserAgent),
		},
		Scraper: ScraperConfig{
			City:            getEnvOrDefault("SCRAPER_CITY", "Casablanca"),
			SettleDelay:     getDurationOrDefault("SCRAPER_SETTLE_DELAY", 2*time.Second),
			ScanPasses:      getIntOrDefault("SCRAPER_SCAN_PASSES", 12),
			ScanPassDelay:   getDurationOrDefault("SCRAPER_SCAN_PASS_DELAY", 350*time.Millisecond),
			TypeDelay:       getDurationOrDefault("SCRAPER_TYPE_DELAY", 35*time.Millisecond),
			ProductPauseMin: getDurationOrDefault("SCRAPER_PRODUCT_PAUSE_MIN", 2*time.Second),
			ProductPauseMax: getDurationOrDefault("SCRAPER_PRODUCT_PAUSE_MAX", 5*time.Second),
			NavRetries:      getIntOrDefault("SCRAPER_NAV_RETRIES", 3),
			DebugCaptureDir: getEnvOrDefault("SCRAPER_DEBUG_DIR", "debug"),
			KeywordsOut:     getStringSliceOrDefault("STOCK_KEYWORDS_OUT", defaultKeywordsOut()),
			KeywordsIn:      getStringSliceOrDefault("STOCK_KEYWORDS_IN", defaultKeywordsIn()),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "jysk_monitor"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Alerts: AlertsConfig{
			Cooldown:         getDurationOrDefault("ALERT_COOLDOWN", 24*time.Hour),
			PercentMode:      getBoolOrDefault("ALERT_PRICE_PERCENT_MODE", false),
			PercentThreshold: getFloatOrDefault("ALERT_PRICE_PERCENT", 5.0),
		},
		Telegram: TelegramConfig{
			Enabled:  getBoolOrDefault("TELEGRAM_ENABLED", false),
			BotToken: getEnvOrDefault("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getInt64OrDefault("TELEGRAM_CHAT_ID", 0),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("SERVER_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	stores, err := parseStores(getEnvOrDefault("STORE_TARGETS", "JYSK Viva Park:6,JYSK Aeria Mall:8"))
	if err != nil {
		return nil, err
	}
	cfg.Stores = stores

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Stores) == 0 {
		return fmt.Errorf("STORE_TARGETS must name at least one store")
	}
	if c.Scraper.ScanPasses < 1 {
		return fmt.Errorf("SCRAPER_SCAN_PASSES must be at least 1")
	}
	if c.Scraper.ProductPauseMin > c.Scraper.ProductPauseMax {
		return fmt.Errorf("SCRAPER_PRODUCT_PAUSE_MIN cannot be greater than SCRAPER_PRODUCT_PAUSE_MAX")
	}
	if c.Alerts.PercentMode && c.Alerts.PercentThreshold <= 0 {
		return fmt.Errorf("ALERT_PRICE_PERCENT must be positive in percent mode")
	}
	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_ENABLED is true")
	}
	return nil
}

// parseStores reads "Name:threshold" pairs separated by commas.
func parseStores(raw string) ([]models.StoreTarget, error) {
	var stores []models.StoreTarget
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid store target %q, want Name:threshold", part)
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("invalid threshold in store target %q: %w", part, err)
		}
		stores = append(stores, models.StoreTarget{
			Name:           strings.TrimSpace(part[:idx]),
			StockThreshold: threshold,
		})
	}
	return stores, nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func defaultKeywordsOut() []string {
	return []string{"épuisé", "rupture", "pas de stock", "out of stock", "sold out"}
}

func defaultKeywordsIn() []string {
	return []string{"en stock", "disponible", "in stock", "available"}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

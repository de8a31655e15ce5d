package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"salesdash/internal/logger"
)

type Config struct {
	// Export locations
	DataDir      string
	SalesFile    string
	InvoicesFile string
	ClosuresFile string

	// Optional: read exports from Google Cloud Storage instead of DataDir
	SourceBucket string
	SourcePrefix string

	// Analysis thresholds
	OutlierThreshold float64
	AlertThreshold   float64
	DiscountAuditPct float64
	DateLayouts      []string
	Timezone         string

	// HTTP API
	HTTPAddr       string
	AllowedOrigins []string

	// OpenAI Configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Google Sheets Configuration
	GoogleSheetURL string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		DataDir:          getEnv("DATA_DIR", "."),
		SalesFile:        getEnv("SALES_FILE", "Reporte_Ventas_Historico.csv"),
		InvoicesFile:     getEnv("INVOICES_FILE", "Reporte_Facturas_Detallado.csv"),
		ClosuresFile:     getEnv("CLOSURES_FILE", "Reporte_Cortes_Detallado.csv"),
		SourceBucket:     getEnv("SOURCE_BUCKET", ""),
		SourcePrefix:     getEnv("SOURCE_PREFIX", ""),
		OutlierThreshold: getEnvFloat("OUTLIER_THRESHOLD", 30000),
		AlertThreshold:   getEnvFloat("ALERT_THRESHOLD", 50),
		DiscountAuditPct: getEnvFloat("DISCOUNT_AUDIT_PCT", 15),
		DateLayouts:      getEnvList("DATE_LAYOUTS", nil),
		Timezone:         getEnv("TIMEZONE", "Local"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GoogleSheetURL:   getEnv("GOOGLE_SHEET_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:    getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:        getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SourceBucket == "" && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR or SOURCE_BUCKET is required")
	}
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("OUTLIER_THRESHOLD must be positive")
	}
	if c.AlertThreshold <= 0 {
		return fmt.Errorf("ALERT_THRESHOLD must be positive")
	}
	if c.DiscountAuditPct <= 0 {
		return fmt.Errorf("DISCOUNT_AUDIT_PCT must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured timezone used to decide "today".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

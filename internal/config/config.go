package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"eye-diagnosis-api/internal/diagnosis"
	"eye-diagnosis-api/internal/report"
)

// Catalog sources.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the service
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	// Prediction settings
	DelayEnabled        bool
	Delay               time.Duration
	ConfidenceMin       float64
	ConfidenceMax       float64
	ConfidencePrecision int
	Seed                uint64

	// Catalog settings
	CatalogSource string
	CatalogFile   string
	DatabaseURL   string
	MigrationsURL string

	ReportFontPaths    []string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables. A set but malformed value is an error,
// never a silent fallback to the default.
func Load() (*Config, error) {
	def := diagnosis.DefaultOptions()
	env := &envParser{}
	cfg := &Config{
		Port:                getEnv("PORT", "5000"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		DelayEnabled:        env.boolean("PREDICT_DELAY_ENABLED", def.DelayEnabled),
		Delay:               env.duration("PREDICT_DELAY", def.Delay),
		ConfidenceMin:       env.float("PREDICT_CONFIDENCE_MIN", def.ConfidenceMin),
		ConfidenceMax:       env.float("PREDICT_CONFIDENCE_MAX", def.ConfidenceMax),
		ConfidencePrecision: env.integer("PREDICT_CONFIDENCE_PRECISION", def.Precision),
		Seed:                env.uint("PREDICT_SEED", 0),
		CatalogSource:       strings.ToLower(getEnv("CATALOG_SOURCE", SourceBuiltin)),
		CatalogFile:         os.Getenv("CATALOG_FILE"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MigrationsURL:       getEnv("MIGRATIONS_URL", "file://migrations"),
		ReportFontPaths:     getEnvList("REPORT_FONT_PATHS", report.DefaultFontPaths),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:     env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// PredictOptions maps the prediction settings onto diagnosis options.
func (c *Config) PredictOptions() diagnosis.Options {
	return diagnosis.Options{
		DelayEnabled:  c.DelayEnabled,
		Delay:         c.Delay,
		ConfidenceMin: c.ConfidenceMin,
		ConfidenceMax: c.ConfidenceMax,
		Precision:     c.ConfidencePrecision,
	}
}

func (c *Config) Validate() error {
	if err := c.PredictOptions().Validate(); err != nil {
		return fmt.Errorf("PREDICT_*: %w", err)
	}
	switch c.CatalogSource {
	case SourceBuiltin:
	case SourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=%s", SourceFile)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=%s", SourcePostgres)
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of builtin, file, postgres, got %q", c.CatalogSource)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envParser reads typed values and collects every parse failure.
type envParser struct {
	errs []error
}

func (p *envParser) lookup(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func (p *envParser) fail(key, v string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s=%q: %w", key, v, err))
}

func (p *envParser) boolean(key string, defaultVal bool) bool {
	v, ok := p.lookup(key)
	if !ok {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return defaultVal
	}
	return b
}

func (p *envParser) integer(key string, defaultVal int) int {
	v, ok := p.lookup(key)
	if !ok {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return defaultVal
	}
	return i
}

func (p *envParser) uint(key string, defaultVal uint64) uint64 {
	v, ok := p.lookup(key)
	if !ok {
		return defaultVal
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
		return defaultVal
	}
	return u
}

func (p *envParser) float(key string, defaultVal float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return defaultVal
	}
	return f
}

func (p *envParser) duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return defaultVal
	}
	return d
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

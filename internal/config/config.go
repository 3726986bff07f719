// Package config loads and validates environment variables at startup.
// Fail-fast: a missing required variable is reported before any component runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported warehouse drivers.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
)

// DefaultCompanies is the target list used when TARGET_COMPANIES is unset.
var DefaultCompanies = []string{
	"Fortinet", "CGI", "OpenText", "Autodesk", "Telus",
	"Global Relay", "Rogers", "Celestica", "Kinaxis", "Salesforce",
	"Softchoice", "Staples", "Huawei Technologies Canada Co", "Hootsuite",
	"Mitel", "Google", "Amazon", "IBM",
	"SAP", "Deloitte", "Accenture",
}

// Config holds all runtime configuration for the ingestion service.
// It is built once in main and handed to each component.
type Config struct {
	Adzuna    AdzunaConfig
	Extract   ExtractConfig
	Warehouse WarehouseConfig

	// RedisURL enables the EVENT_BRONZE_LOADED notification when set.
	RedisURL string `env:"REDIS_URL"`

	ScheduleSpec string `env:"SCHEDULE_SPEC" envDefault:"@every 24h"`
	HealthPort   string `env:"HEALTH_PORT"   envDefault:"8083"`
	LogLevel     string `env:"LOG_LEVEL"     envDefault:"info"`
}

// AdzunaConfig configures the job-search API client.
type AdzunaConfig struct {
	AppID       string        `env:"ADZUNA_APP_ID"`
	AppKey      string        `env:"ADZUNA_APP_KEY"`
	Country     string        `env:"ADZUNA_COUNTRY"  envDefault:"ca"`
	BaseURL     string        `env:"ADZUNA_BASE_URL" envDefault:"https://api.adzuna.com/v1/api/jobs"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"    envDefault:"15s"`
	PageDelay   time.Duration `env:"PAGE_DELAY"      envDefault:"500ms"`
}

// ExtractConfig configures one extraction run.
type ExtractConfig struct {
	Companies    []string      `env:"TARGET_COMPANIES" envSeparator:","`
	MaxPages     int           `env:"MAX_PAGES"        envDefault:"10"`
	CompanyDelay time.Duration `env:"COMPANY_DELAY"    envDefault:"1s"`
	OutputPath   string        `env:"OUTPUT_PATH"      envDefault:"data/raw_jobs.csv"`
}

// WarehouseConfig configures the bronze staging destination.
type WarehouseConfig struct {
	Driver      string          `env:"WAREHOUSE_DRIVER" envDefault:"snowflake"`
	Table       string          `env:"WAREHOUSE_TABLE"  envDefault:"BRONZE.RAW_JOB_POSTINGS"`
	DatabaseURL string          `env:"DATABASE_URL"`
	Snowflake   SnowflakeConfig `envPrefix:"SNOWFLAKE_"`
}

// SnowflakeConfig holds the Snowflake connection parameters.
type SnowflakeConfig struct {
	User      string `env:"USER"`
	Password  string `env:"PASSWORD"`
	Account   string `env:"ACCOUNT"`
	Warehouse string `env:"WAREHOUSE"`
	Database  string `env:"DATABASE"`
	Schema    string `env:"SCHEMA"`
}

// Load reads a .env file if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return parse(env.Options{})
}

// LoadFrom builds a Config from the given variables only.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.sanitize()
	return &cfg, nil
}

func (c *Config) sanitize() {
	companies := make([]string, 0, len(c.Extract.Companies))
	for _, name := range c.Extract.Companies {
		if name = strings.TrimSpace(name); name != "" {
			companies = append(companies, name)
		}
	}
	if len(companies) == 0 {
		companies = append(companies, DefaultCompanies...)
	}
	c.Extract.Companies = companies

	if c.Extract.MaxPages <= 0 {
		c.Extract.MaxPages = 10
	}
	c.Warehouse.Driver = strings.ToLower(strings.TrimSpace(c.Warehouse.Driver))
}

// ValidateExtract checks the variables the extractor needs.
func (c *Config) ValidateExtract() error {
	if c.Adzuna.AppID == "" || c.Adzuna.AppKey == "" {
		return fmt.Errorf("ADZUNA_APP_ID and ADZUNA_APP_KEY are required")
	}
	if c.Extract.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	return nil
}

// ValidateLoad checks the variables the loader needs for the selected driver.
func (c *Config) ValidateLoad() error {
	if c.Extract.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}

	switch c.Warehouse.Driver {
	case DriverSnowflake:
		sf := c.Warehouse.Snowflake
		var missing []string
		for name, v := range map[string]string{
			"SNOWFLAKE_USER":      sf.User,
			"SNOWFLAKE_PASSWORD":  sf.Password,
			"SNOWFLAKE_ACCOUNT":   sf.Account,
			"SNOWFLAKE_WAREHOUSE": sf.Warehouse,
			"SNOWFLAKE_DATABASE":  sf.Database,
			"SNOWFLAKE_SCHEMA":    sf.Schema,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return fmt.Errorf("missing snowflake settings: %s", strings.Join(missing, ", "))
		}
	case DriverPostgres:
		if c.Warehouse.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("WAREHOUSE_DRIVER must be %q or %q, got %q",
			DriverSnowflake, DriverPostgres, c.Warehouse.Driver)
	}
	return nil
}

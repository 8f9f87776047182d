package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Security    SecurityConfig    `yaml:"security" envconfig:"SECURITY"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
	Paths       PathsConfig       `yaml:"paths" envconfig:"PATHS"`
	Procurement ProcurementConfig `yaml:"procurement" envconfig:"PROCUREMENT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains CORS and rate limiting configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ProcurementConfig describes the ingestion pipeline: where the source
// workbook lives, where the cache artifact is written, and the row-inclusion
// classifier sentinels. Changing the column mapping or the sentinels is a
// compatibility-affecting operation.
type ProcurementConfig struct {
	// SourcePaths are tried in order; the first existing file wins.
	SourcePaths []string `yaml:"source_paths" envconfig:"SOURCE_PATHS"`
	// CacheFile holds the persisted AggregateResult JSON, relative to DataDir
	// unless absolute.
	CacheFile string `yaml:"cache_file" envconfig:"CACHE_FILE"`
	// SheetName overrides worksheet selection; empty means first sheet.
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME"`

	// BusinessUnit and POType are the strict-mode classifier sentinels.
	BusinessUnit string `yaml:"business_unit" envconfig:"BUSINESS_UNIT" validate:"required"`
	POType       string `yaml:"po_type" envconfig:"PO_TYPE" validate:"required"`
	// MinAmount is the lenient-fallback admission threshold (exclusive).
	// The value is a heuristic carried over from the source system, not a
	// documented business rule.
	MinAmount float64 `yaml:"min_amount" envconfig:"MIN_AMOUNT"`

	TopVendors      int   `yaml:"top_vendors" envconfig:"TOP_VENDORS" validate:"min=1"`
	ComparisonYears []int `yaml:"comparison_years" envconfig:"COMPARISON_YEARS"`

	// Rebuild retry bounds for the explicit re-extraction path.
	RebuildMaxRetries uint          `yaml:"rebuild_max_retries" envconfig:"REBUILD_MAX_RETRIES"`
	RebuildMaxElapsed time.Duration `yaml:"rebuild_max_elapsed" envconfig:"REBUILD_MAX_ELAPSED"`
}

var validate = validator.New()

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("PROCDASH", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.resolvePaths()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths joins relative procurement paths onto the data directory.
func (c *Config) resolvePaths() {
	if !filepath.IsAbs(c.Procurement.CacheFile) {
		c.Procurement.CacheFile = filepath.Join(c.Paths.DataDir, filepath.Clean(c.Procurement.CacheFile))
	}
	if !filepath.IsAbs(c.Logging.FilePath) && c.Paths.LogsDir != "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, filepath.Base(c.Logging.FilePath))
	}
}

// EnsureDirectories creates the data and logs directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// findConfigFile returns the path to the config file, checking common locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
		Procurement: ProcurementConfig{
			SourcePaths: []string{
				"data/Supplier_Info_2023to2025.xlsx",
				"Supplier_Info_2023to2025.xlsx",
			},
			CacheFile:         "cached_data.json",
			BusinessUnit:      "10000",
			POType:            "P2P",
			MinAmount:         0,
			TopVendors:        10,
			ComparisonYears:   []int{2021, 2022, 2023, 2024, 2025},
			RebuildMaxRetries: 3,
			RebuildMaxElapsed: 2 * time.Minute,
		},
	}
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "ECOM"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
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
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// Data source kinds
const (
	SourceXLSX   = "xlsx"
	SourceSheets = "sheets"
)

// DataConfig describes where product workbooks come from and how the
// dashboard derives metrics from them.
type DataConfig struct {
	Dir             string `yaml:"dir" envconfig:"DIR"`
	Source          string `yaml:"source" envconfig:"SOURCE"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	CatalogFile     string `yaml:"catalog_file" envconfig:"CATALOG_FILE"`
	Parallelism     int    `yaml:"parallelism" envconfig:"PARALLELISM"`
	DefaultType     string `yaml:"default_type" envconfig:"DEFAULT_TYPE"`
	RollingWindow   int    `yaml:"rolling_window" envconfig:"ROLLING_WINDOW"`
	PageSize        int    `yaml:"page_size" envconfig:"PAGE_SIZE"`
	ExportDir       string `yaml:"export_dir" envconfig:"EXPORT_DIR"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// TelemetryConfig controls OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceToStdout bool   `yaml:"trace_to_stdout" envconfig:"TRACE_TO_STDOUT"`
}

// Load builds the configuration from defaults, then the config file if one
// is found, then environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file on top of cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Data.Source) {
	case SourceXLSX:
		if c.Data.Dir == "" {
			return fmt.Errorf("data dir is required for xlsx source")
		}
	case SourceSheets:
		if c.Data.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id is required for sheets source")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.Data.Source)
	}
	c.Data.Source = strings.ToLower(c.Data.Source)

	if c.Data.RollingWindow <= 0 {
		return fmt.Errorf("rolling window must be positive, got %d", c.Data.RollingWindow)
	}

	if c.Data.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.Data.PageSize)
	}

	if c.Data.Parallelism <= 0 {
		c.Data.Parallelism = 1
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" if none
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			Dir:           "analysispart3",
			Source:        SourceXLSX,
			Parallelism:   4,
			DefaultType:   "Mobile",
			RollingWindow: 3,
			PageSize:      10,
			ExportDir:     "exports",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "ecommerce-dashboard",
			Environment:   "development",
			EnableTracing: true,
			EnableMetrics: true,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DashboardConfig contains the report pipeline's configuration inputs.
// DefaultWindow is the moving-average window applied when a request does not
// name one; it must stay inside [2,12].
type DashboardConfig struct {
	DefaultWindow  int   `yaml:"default_window" envconfig:"DEFAULT_WINDOW" default:"3"`
	UseSample      bool  `yaml:"use_sample" envconfig:"USE_SAMPLE" default:"true"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

// Load loads configuration from environment variables and an optional YAML
// config file. Environment values take precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SALESPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs merges file config into env config: file values only fill
// fields the environment left at their zero value.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if fileConfig.Server.Port != 0 && os.Getenv("SALESPULSE_SERVER_PORT") == "" {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Logging.Level != "" && os.Getenv("SALESPULSE_LOGGING_LEVEL") == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && os.Getenv("SALESPULSE_LOGGING_OUTPUT") == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Dashboard.DefaultWindow != 0 && os.Getenv("SALESPULSE_DASHBOARD_DEFAULT_WINDOW") == "" {
		envConfig.Dashboard.DefaultWindow = fileConfig.Dashboard.DefaultWindow
	}
	if fileConfig.Dashboard.MaxUploadBytes != 0 && os.Getenv("SALESPULSE_DASHBOARD_MAX_UPLOAD_BYTES") == "" {
		envConfig.Dashboard.MaxUploadBytes = fileConfig.Dashboard.MaxUploadBytes
	}
	return envConfig
}

func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func getConfigFilePath() string {
	if path := os.Getenv("SALESPULSE_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Dashboard.DefaultWindow < 2 || c.Dashboard.DefaultWindow > 12 {
		return fmt.Errorf("default window %d outside [2,12]", c.Dashboard.DefaultWindow)
	}
	if c.Dashboard.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Dashboard.MaxUploadBytes)
	}
	return nil
}

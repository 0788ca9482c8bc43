package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bellybutton/internal/errors"
)

// DefaultDatasetURL is where the survey dataset is published
const DefaultDatasetURL = "https://2u-data-curriculum-team.s3.amazonaws.com/dataviz-classroom/v1.1/14-Interactive-Web-Visualizations/02-Homework/samples.json"

// Dataset source kinds
const (
	SourceRemote    = "remote"
	SourceFile      = "file"
	SourcePostgres  = "postgres"
	SourceSynthetic = "synthetic" // generated data, no network or database needed
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatasetConfig selects and tunes the dataset source
type DatasetConfig struct {
	Source       string        `yaml:"source"`
	URL          string        `yaml:"url"`
	File         string        `yaml:"file"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	MaxBytes     int64         `yaml:"max_bytes"`
}

// DatabaseConfig holds the postgres source settings
type DatabaseConfig struct {
	URL         string `yaml:"url"`
	Table       string `yaml:"table"`
	DatasetName string `yaml:"dataset_name"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{
			Source:       SourceRemote,
			URL:          DefaultDatasetURL,
			FetchTimeout: 30 * time.Second,
			MaxBytes:     32 << 20,
		},
		Database: DatabaseConfig{
			Table:       "datasets",
			DatasetName: "samples",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and environment variables, in that order.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	applyEnv(config)

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)
	config.Server.ShutdownTimeout = getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", config.Server.ShutdownTimeout)

	config.Dataset.Source = strings.ToLower(getEnvOrDefault("DATASET_SOURCE", config.Dataset.Source))
	config.Dataset.URL = getEnvOrDefault("DATASET_URL", config.Dataset.URL)
	config.Dataset.File = getEnvOrDefault("DATASET_FILE", config.Dataset.File)
	config.Dataset.FetchTimeout = getEnvDurationOrDefault("FETCH_TIMEOUT", config.Dataset.FetchTimeout)
	config.Dataset.MaxBytes = getEnvInt64OrDefault("DATASET_MAX_BYTES", config.Dataset.MaxBytes)

	config.Database.URL = getEnvOrDefault("DATABASE_URL", config.Database.URL)
	config.Database.Table = getEnvOrDefault("DATASET_TABLE", config.Database.Table)
	config.Database.DatasetName = getEnvOrDefault("DATASET_NAME", config.Database.DatasetName)

	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnvOrDefault("LOG_FORMAT", config.Log.Format)
}

// Validate checks that the selected source has what it needs
func Validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Dataset.FetchTimeout <= 0 {
		return errors.ConfigInvalid("fetch timeout must be positive")
	}
	if config.Dataset.MaxBytes <= 0 {
		return errors.ConfigInvalid("dataset size limit must be positive")
	}

	switch config.Dataset.Source {
	case SourceRemote:
		if config.Dataset.URL == "" {
			return errors.ConfigInvalid("DATASET_URL is required for the remote source")
		}
	case SourceFile:
		if config.Dataset.File == "" {
			return errors.ConfigInvalid("DATASET_FILE is required for the file source")
		}
	case SourcePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres source")
		}
		if config.Database.Table == "" || config.Database.DatasetName == "" {
			return errors.ConfigInvalid("dataset table and name are required for the postgres source")
		}
	case SourceSynthetic:
	default:
		return errors.ConfigInvalid("unknown dataset source: " + config.Dataset.Source)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "bikeshare/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. BIKESHARE_LOGGING_LEVEL.
const EnvPrefix = "BIKESHARE"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"file" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bikeshare.log" validate:"required_unless=Output console"`
}

// DataConfig locates the city source files.
type DataConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" default:"data"`
	RegistryFile string `yaml:"registry_file" envconfig:"REGISTRY_FILE"`
}

// TelemetryConfig selects the trace and metric exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"bikeshare" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from environment variables and config file.
// Values set in the environment take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
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

// mergeConfigs overlays fileConfig onto envConfig for every field the
// environment did not set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	mergeString(&envConfig.Logging.Level, "LOGGING_LEVEL", fileConfig.Logging.Level)
	mergeString(&envConfig.Logging.Output, "LOGGING_OUTPUT", fileConfig.Logging.Output)
	mergeString(&envConfig.Logging.FilePath, "LOGGING_FILE_PATH", fileConfig.Logging.FilePath)
	mergeString(&envConfig.Data.Dir, "DATA_DIR", fileConfig.Data.Dir)
	mergeString(&envConfig.Data.RegistryFile, "DATA_REGISTRY_FILE", fileConfig.Data.RegistryFile)
	mergeString(&envConfig.Telemetry.ServiceName, "TELEMETRY_SERVICE_NAME", fileConfig.Telemetry.ServiceName)
	mergeString(&envConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER", fileConfig.Telemetry.TraceExporter)
	mergeString(&envConfig.Telemetry.MetricExporter, "TELEMETRY_METRIC_EXPORTER", fileConfig.Telemetry.MetricExporter)
	mergeString(&envConfig.Telemetry.MetricsFile, "TELEMETRY_METRICS_FILE", fileConfig.Telemetry.MetricsFile)

	return envConfig
}

// mergeString takes the file value unless BIKESHARE_<key> is set to a
// non-empty value.
func mergeString(dst *string, key, fromFile string) {
	if fromFile == "" {
		return
	}
	if v, ok := os.LookupEnv(EnvPrefix + "_" + key); ok && v != "" {
		return
	}
	*dst = fromFile
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// RegistryPath returns the registry file resolved against the data directory,
// or "" when no registry file is configured.
func (c *Config) RegistryPath() string {
	if c.Data.RegistryFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Data.RegistryFile) {
		return c.Data.RegistryFile
	}
	return filepath.Join(c.Data.Dir, c.Data.RegistryFile)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: "logs/bikeshare.log",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "bikeshare",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}

// String summarizes the configuration for startup logging.
func (c *Config) String() string {
	return fmt.Sprintf("logging=%s/%s data=%s traces=%s metrics=%s",
		c.Logging.Level, c.Logging.Output, c.Data.Dir,
		c.Telemetry.TraceExporter, c.Telemetry.MetricExporter)
}

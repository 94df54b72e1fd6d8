package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
}

// ServerConfig contains server configuration
type ServerConfig struct {
	Port            string   `yaml:"port" mapstructure:"port" json:"port"`
	Host            string   `yaml:"host" mapstructure:"host" json:"host"`
	CORSOrigins     []string `yaml:"corsOrigins" mapstructure:"corsOrigins" json:"corsOrigins"`
	EnableDashboard bool     `yaml:"enableDashboard" mapstructure:"enableDashboard" json:"enableDashboard"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled               bool   `yaml:"enabled" mapstructure:"enabled"`
	Path                  string `yaml:"path" mapstructure:"path"`
	IncludeProcessMetrics bool   `yaml:"includeProcessMetrics" mapstructure:"includeProcessMetrics"`
	IncludeGoMetrics      bool   `yaml:"includeGoMetrics" mapstructure:"includeGoMetrics"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string            `yaml:"level" mapstructure:"level"`
	Format string            `yaml:"format" mapstructure:"format"`
	Output string            `yaml:"output" mapstructure:"output"`
	Fields map[string]string `yaml:"fields" mapstructure:"fields"`
}

// ColumnsConfig maps the dataset roles onto column names of the series table
type ColumnsConfig struct {
	Timestamp string   `yaml:"timestamp" mapstructure:"timestamp"`
	SeriesID  string   `yaml:"seriesId" mapstructure:"seriesId"`
	Actual    string   `yaml:"actual" mapstructure:"actual"`
	Forecast  string   `yaml:"forecast" mapstructure:"forecast"`
	Extrema   string   `yaml:"extrema,omitempty" mapstructure:"extrema"`
	Features  []string `yaml:"features,omitempty" mapstructure:"features"`
}

// DataConfig describes the dataset and the visualization options built on it
type DataConfig struct {
	SeriesPath     string        `yaml:"seriesPath" mapstructure:"seriesPath"`
	RankingPath    string        `yaml:"rankingPath,omitempty" mapstructure:"rankingPath"`
	ExceptionsPath string        `yaml:"exceptionsPath,omitempty" mapstructure:"exceptionsPath"`
	Columns        ColumnsConfig `yaml:"columns" mapstructure:"columns"`
	DisplayCount   int           `yaml:"displayCount" mapstructure:"displayCount"`

	// Ranking table options. RankColumn names the metric driving the sort
	// toggle; when empty the first non-identifier, non-geo column is used.
	RankColumn      string `yaml:"rankColumn,omitempty" mapstructure:"rankColumn"`
	LatitudeColumn  string `yaml:"latitudeColumn" mapstructure:"latitudeColumn"`
	LongitudeColumn string `yaml:"longitudeColumn" mapstructure:"longitudeColumn"`
	MapColorColumn  string `yaml:"mapColorColumn,omitempty" mapstructure:"mapColorColumn"`

	// Exceptions table options. Requires a geo-enabled ranking table.
	ExceptionCountColumn string `yaml:"exceptionCountColumn,omitempty" mapstructure:"exceptionCountColumn"`
}

// LoadConfig loads configuration from file
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", "8050")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.corsOrigins", []string{"http://localhost:3000", "http://localhost:8050"})
	v.SetDefault("server.enableDashboard", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.includeProcessMetrics", true)
	v.SetDefault("metrics.includeGoMetrics", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("data.displayCount", 5)
	v.SetDefault("data.columns.timestamp", "timestamp")
	v.SetDefault("data.columns.seriesId", "ts_id")
	v.SetDefault("data.columns.actual", "actual_value")
	v.SetDefault("data.columns.forecast", "forecasted_value")
	v.SetDefault("data.latitudeColumn", "latitude")
	v.SetDefault("data.longitudeColumn", "longitude")

	// Enable environment variable substitution
	v.AutomaticEnv()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/seriesboard")
	}

	// Read config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	// Validate dataset config
	if c.Data.SeriesPath == "" {
		return fmt.Errorf("data.seriesPath is required")
	}
	if c.Data.DisplayCount < 1 {
		return fmt.Errorf("data.displayCount must be at least 1, got %d", c.Data.DisplayCount)
	}

	// Validate column bindings
	cols := c.Data.Columns
	for _, binding := range []struct {
		role, name string
	}{
		{"data.columns.timestamp", cols.Timestamp},
		{"data.columns.seriesId", cols.SeriesID},
		{"data.columns.actual", cols.Actual},
		{"data.columns.forecast", cols.Forecast},
	} {
		if binding.name == "" {
			return fmt.Errorf("%s is required", binding.role)
		}
	}
	for i, feature := range cols.Features {
		if feature == "" {
			return fmt.Errorf("data.columns.features[%d] must not be empty", i)
		}
	}

	// The exceptions route needs a count column and a geo-enabled ranking
	// table to anchor its per-series views.
	if c.Data.ExceptionsPath != "" {
		if c.Data.ExceptionCountColumn == "" {
			return fmt.Errorf("data.exceptionCountColumn is required when data.exceptionsPath is set")
		}
		if c.Data.RankingPath == "" {
			return fmt.Errorf("data.exceptionsPath requires data.rankingPath with latitude/longitude columns")
		}
	}
	if c.Data.ExceptionCountColumn != "" && c.Data.ExceptionsPath == "" {
		return fmt.Errorf("data.exceptionCountColumn is set but data.exceptionsPath is missing")
	}

	return nil
}

// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/finance-summary/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the config.
const EnvPrefix = "FINSUM"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
		OutputDelimiter  string `mapstructure:"output_delimiter" yaml:"output_delimiter"`
		OutputDateFormat string `mapstructure:"output_date_format" yaml:"output_date_format"`
	} `mapstructure:"csv" yaml:"csv"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Normalization struct {
		SampleSize          int     `mapstructure:"sample_size" yaml:"sample_size"`
		DateThreshold       float64 `mapstructure:"date_threshold" yaml:"date_threshold"`
		AmountThreshold     float64 `mapstructure:"amount_threshold" yaml:"amount_threshold"`
		AmountMeanMin       float64 `mapstructure:"amount_mean_min" yaml:"amount_mean_min"`
		AmountMeanMax       float64 `mapstructure:"amount_mean_max" yaml:"amount_mean_max"`
		HeaderlessScanCells int     `mapstructure:"headerless_scan_cells" yaml:"headerless_scan_cells"`
	} `mapstructure:"normalization" yaml:"normalization"`

	Cache struct {
		Enabled bool `mapstructure:"enabled" yaml:"enabled"`
		Size    int  `mapstructure:"size" yaml:"size"`
	} `mapstructure:"cache" yaml:"cache"`

	Report struct {
		Format      string `mapstructure:"format" yaml:"format"`
		Currency    string `mapstructure:"currency" yaml:"currency"`
		RecentLimit int    `mapstructure:"recent_limit" yaml:"recent_limit"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then FINSUM_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.finance-summary")
	v.AddConfigPath(".finance-summary")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.output_delimiter", ",")
	v.SetDefault("csv.output_date_format", "2006-01-02")

	// Empty means the embedded rule table.
	v.SetDefault("rules.file", "")

	v.SetDefault("normalization.sample_size", 100)
	v.SetDefault("normalization.date_threshold", 0.5)
	v.SetDefault("normalization.amount_threshold", 0.7)
	v.SetDefault("normalization.amount_mean_min", 0.01)
	v.SetDefault("normalization.amount_mean_max", 1000000.0)
	v.SetDefault("normalization.headerless_scan_cells", 3)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)

	v.SetDefault("report.format", "text")
	v.SetDefault("report.currency", "USD")
	v.SetDefault("report.recent_limit", 10)
}

func validateConfig(config *Config) error {
	if _, ok := logging.ParseLevel(config.Log.Level); !ok {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %q", config.CSV.Delimiter)
	}
	if len([]rune(config.CSV.OutputDelimiter)) != 1 {
		return fmt.Errorf("CSV output delimiter must be a single character, got: %q", config.CSV.OutputDelimiter)
	}

	n := config.Normalization
	if n.SampleSize < 1 {
		return fmt.Errorf("normalization.sample_size must be positive, got: %d", n.SampleSize)
	}
	if n.DateThreshold <= 0 || n.DateThreshold > 1 {
		return fmt.Errorf("normalization.date_threshold must be in (0, 1], got: %f", n.DateThreshold)
	}
	if n.AmountThreshold <= 0 || n.AmountThreshold > 1 {
		return fmt.Errorf("normalization.amount_threshold must be in (0, 1], got: %f", n.AmountThreshold)
	}
	if n.AmountMeanMin < 0 || n.AmountMeanMax <= n.AmountMeanMin {
		return fmt.Errorf("normalization amount band is empty: [%f, %f]", n.AmountMeanMin, n.AmountMeanMax)
	}
	if n.HeaderlessScanCells < 1 {
		return fmt.Errorf("normalization.headerless_scan_cells must be positive, got: %d", n.HeaderlessScanCells)
	}

	if config.Cache.Enabled && config.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be positive when the cache is enabled, got: %d", config.Cache.Size)
	}

	switch config.Report.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'text', 'json' or 'csv')", config.Report.Format)
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger matching the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrus(config.Log.Level, config.Log.Format, nil)
}

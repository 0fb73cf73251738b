// =============================================================================
// Todoist to Reminders Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// SOURCES (later sources override earlier ones):
//   1. Built-in defaults (DefaultConfig)
//   2. The YAML configuration file named by --config, if any
//   3. Environment variables prefixed with TODOIST_EXPORT_
//      (e.g. TODOIST_EXPORT_OUTPUT_FORMAT=yaml,
//       TODOIST_EXPORT_CSV_SETTINGS_DELIMITER=";")
//   4. Command-line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TODOIST_EXPORT"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputExtensions lists the file extensions picked up from the source
	// directory. Supported: ".csv", ".xlsx".
	// Default: [".csv"]
	InputExtensions []string `yaml:"input_extensions" mapstructure:"input_extensions"`

	// CSVSettings contains settings for decoding CSV exports.
	CSVSettings CSVSettings `yaml:"csv_settings" mapstructure:"csv_settings"`

	// XLSXSheet is the worksheet read from .xlsx exports.
	// Default: "" (the first sheet)
	XLSXSheet string `yaml:"xlsx_sheet" mapstructure:"xlsx_sheet"`

	// =========================================================================
	// CONVERSION SETTINGS
	// =========================================================================

	// Timezone is the IANA zone in which parsed due dates are anchored at
	// midnight. "Local" uses the system zone.
	// Default: "Local"
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the serialization of the output documents: "json" or "yaml".
	// Default: "json"
	OutputFormat string `yaml:"output_format" mapstructure:"output_format"`

	// OutputIndent is the indentation of JSON output. Empty writes compact JSON.
	// Default: ""
	OutputIndent string `yaml:"output_indent" mapstructure:"output_indent"`

	// WriteSummary writes a processing summary file into the target directory.
	// Default: false
	WriteSummary bool `yaml:"write_summary" mapstructure:"write_summary"`

	// ReviewReport is the path of an .xlsx workbook listing every task that
	// needs manual adjustment. Empty disables the report.
	ReviewReport string `yaml:"review_report" mapstructure:"review_report"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// ContinueOnError determines whether the remaining files are converted
	// after one file failed.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error" mapstructure:"continue_on_error"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// CSVSettings contains settings for decoding CSV exports.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`

	// LazyQuotes tolerates quotes in unquoted fields.
	// Default: true
	LazyQuotes bool `yaml:"lazy_quotes" mapstructure:"lazy_quotes"`

	// TrimLeadingSpace ignores leading white space in a field. Titles and
	// descriptions lose their indentation when it is set.
	// Default: false
	TrimLeadingSpace bool `yaml:"trim_leading_space" mapstructure:"trim_leading_space"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() *Config {
	return &Config{
		InputExtensions: []string{".csv"},
		CSVSettings: CSVSettings{
			Delimiter:        ",",
			LazyQuotes:       true,
			TrimLeadingSpace: false,
		},
		Timezone:        "Local",
		OutputFormat:    FormatJSON,
		ContinueOnError: true,
		LogLevel:        "info",
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the configuration from defaults, the YAML file at configPath and
// the environment. An empty configPath reads no file; a named file must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key with viper so environment overrides are
// picked up by Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("input_extensions", cfg.InputExtensions)
	v.SetDefault("csv_settings.delimiter", cfg.CSVSettings.Delimiter)
	v.SetDefault("csv_settings.lazy_quotes", cfg.CSVSettings.LazyQuotes)
	v.SetDefault("csv_settings.trim_leading_space", cfg.CSVSettings.TrimLeadingSpace)
	v.SetDefault("xlsx_sheet", cfg.XLSXSheet)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("output_indent", cfg.OutputIndent)
	v.SetDefault("write_summary", cfg.WriteSummary)
	v.SetDefault("review_report", cfg.ReviewReport)
	v.SetDefault("continue_on_error", cfg.ContinueOnError)
	v.SetDefault("log_level", cfg.LogLevel)
}

// applyDefaults fills values that were explicitly set to empty.
func applyDefaults(cfg *Config) {
	if len(cfg.InputExtensions) == 0 {
		cfg.InputExtensions = []string{".csv"}
	}
	for i, ext := range cfg.InputExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.InputExtensions[i] = ext
	}
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatJSON
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported output_format %q (use %q or %q)", c.OutputFormat, FormatJSON, FormatYAML)
	}

	for _, ext := range c.InputExtensions {
		if ext != ".csv" && ext != ".xlsx" {
			return fmt.Errorf("unsupported input extension %q", ext)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if _, err := c.CSVSettings.Comma(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// OutputExtension returns the file extension of output documents.
func (c *Config) OutputExtension() string {
	if c.OutputFormat == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Comma returns the delimiter rune for encoding/csv.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "", ",":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	runes := []rune(s.Delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return 0, fmt.Errorf("invalid csv delimiter %q", s.Delimiter)
	}
	return runes[0], nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

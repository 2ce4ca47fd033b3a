package config

import (
	"fmt"
	"os"

	"github.com/harrison/filetier/internal/classify"
	"github.com/harrison/filetier/internal/export"
	"github.com/harrison/filetier/internal/logger"
	"gopkg.in/yaml.v3"
)

// OutputsConfig names the export destinations. An empty path disables that
// output.
type OutputsConfig struct {
	CSV      string `yaml:"csv"`
	JSON     string `yaml:"json"`
	Markdown string `yaml:"markdown"`
	HTML     string `yaml:"html"`
	SQLite   string `yaml:"sqlite"`
}

// Config represents filetier configuration options
type Config struct {
	// Root is the directory to scan
	Root string `yaml:"root"`

	// ActiveDays is the inclusive upper age bound of the Active tier
	ActiveDays int `yaml:"active_days"`

	// StaleDays is the inclusive upper age bound of the Stale tier
	StaleDays int `yaml:"stale_days"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables a per-run log file in this directory when set
	LogDir string `yaml:"log_dir"`

	// Quiet suppresses the per-record console lines
	Quiet bool `yaml:"quiet"`

	Outputs OutputsConfig `yaml:"outputs"`
}

// DefaultConfig returns the baseline configuration: scan ".", 30/180 day
// thresholds, CSV and JSON written to the working directory.
func DefaultConfig() *Config {
	return &Config{
		Root:       ".",
		ActiveDays: classify.DefaultActiveDays,
		StaleDays:  classify.DefaultStaleDays,
		LogLevel:   "info",
		LogDir:     "",
		Quiet:      false,
		Outputs: OutputsConfig{
			CSV:  export.DefaultCSVFile,
			JSON: export.DefaultJSONFile,
		},
	}
}

// Thresholds returns the classification thresholds carried by the config.
func (c *Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{ActiveDays: c.ActiveDays, StaleDays: c.StaleDays}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields distinguish "absent" from an explicit zero.
	type yamlConfig struct {
		Root       string        `yaml:"root"`
		ActiveDays *int          `yaml:"active_days"`
		StaleDays  *int          `yaml:"stale_days"`
		LogLevel   string        `yaml:"log_level"`
		LogDir     string        `yaml:"log_dir"`
		Quiet      bool          `yaml:"quiet"`
		Outputs    OutputsConfig `yaml:"outputs"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Root != "" {
		cfg.Root = yamlCfg.Root
	}
	if yamlCfg.ActiveDays != nil {
		cfg.ActiveDays = *yamlCfg.ActiveDays
	}
	if yamlCfg.StaleDays != nil {
		cfg.StaleDays = *yamlCfg.StaleDays
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Quiet {
		cfg.Quiet = yamlCfg.Quiet
	}

	// An outputs key that is present overrides the default even when empty,
	// which is how a default output gets disabled.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["outputs"]; exists && section != nil {
			outputs := yamlCfg.Outputs
			outputsMap, _ := section.(map[string]interface{})

			if _, exists := outputsMap["csv"]; exists {
				cfg.Outputs.CSV = outputs.CSV
			}
			if _, exists := outputsMap["json"]; exists {
				cfg.Outputs.JSON = outputs.JSON
			}
			if _, exists := outputsMap["markdown"]; exists {
				cfg.Outputs.Markdown = outputs.Markdown
			}
			if _, exists := outputsMap["html"]; exists {
				cfg.Outputs.HTML = outputs.HTML
			}
			if _, exists := outputsMap["sqlite"]; exists {
				cfg.Outputs.SQLite = outputs.SQLite
			}
		}
	}

	return cfg, nil
}

// Overrides carries CLI flag values. Nil fields leave the configuration
// untouched.
type Overrides struct {
	Root       *string
	ActiveDays *int
	StaleDays  *int
	LogLevel   *string
	LogDir     *string
	Quiet      *bool
	CSV        *string
	JSON       *string
	Markdown   *string
	HTML       *string
	SQLite     *string
	NoCSV      bool
	NoJSON     bool
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(o Overrides) {
	if o.Root != nil {
		c.Root = *o.Root
	}
	if o.ActiveDays != nil {
		c.ActiveDays = *o.ActiveDays
	}
	if o.StaleDays != nil {
		c.StaleDays = *o.StaleDays
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.Quiet != nil {
		c.Quiet = *o.Quiet
	}
	if o.CSV != nil {
		c.Outputs.CSV = *o.CSV
	}
	if o.JSON != nil {
		c.Outputs.JSON = *o.JSON
	}
	if o.Markdown != nil {
		c.Outputs.Markdown = *o.Markdown
	}
	if o.HTML != nil {
		c.Outputs.HTML = *o.HTML
	}
	if o.SQLite != nil {
		c.Outputs.SQLite = *o.SQLite
	}
	if o.NoCSV {
		c.Outputs.CSV = ""
	}
	if o.NoJSON {
		c.Outputs.JSON = ""
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Model   ModelConfig   `yaml:"model" envconfig:"MODEL"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// DataConfig describes where and how the input datasets are read
type DataConfig struct {
	// Region is the dataset region label used in preprocessed file names,
	// e.g. "Global" or "Oceania".
	Region string `yaml:"region" envconfig:"REGION" default:"Global"`
	// Format selects the dataset format: "csv" or "xlsx".
	Format string `yaml:"format" envconfig:"FORMAT" default:"csv"`
}

// ModelConfig contains the numerical parameters of the trade-shift model
type ModelConfig struct {
	// IterationCap bounds the re-export correction loop.
	IterationCap int `yaml:"iteration_cap" envconfig:"ITERATION_CAP" default:"1000"`
	// Tolerance is the largest supply-bound violation (in tonnes) still
	// considered converged.
	Tolerance float64 `yaml:"tolerance" envconfig:"TOLERANCE" default:"1e-6"`
	// FlowThreshold drops corrected flows at or below this quantity when
	// building the trade graph.
	FlowThreshold float64 `yaml:"flow_threshold" envconfig:"FLOW_THRESHOLD" default:"0"`
	// Seed drives every randomised computation so runs are reproducible.
	Seed int64 `yaml:"seed" envconfig:"SEED" default:"2"`
	// AttackSampleSize is the number of random-attack realisations used in
	// the percolation analysis. Must be at least 2.
	AttackSampleSize int `yaml:"attack_sample_size" envconfig:"ATTACK_SAMPLE_SIZE" default:"100"`
	// Normalisation selects the graph efficiency normalisation: "none",
	// "weak" or "strong".
	Normalisation string `yaml:"normalisation" envconfig:"NORMALISATION" default:"weak"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data/preprocessed_data"`
	CacheDir   string `yaml:"cache_dir" envconfig:"CACHE_DIR" default:"data/cache"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"results/reports"`
}

// Load loads configuration from environment variables and an optional config file
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRADESHIFTS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(cfg, *fileCfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
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

// mergeConfigs overlays file values on top of the env-derived base.
// Non-zero file values win.
func mergeConfigs(base, file Config) Config {
	out := base
	if file.Data.Region != "" {
		out.Data.Region = file.Data.Region
	}
	if file.Data.Format != "" {
		out.Data.Format = file.Data.Format
	}
	if file.Model.IterationCap != 0 {
		out.Model.IterationCap = file.Model.IterationCap
	}
	if file.Model.Tolerance != 0 {
		out.Model.Tolerance = file.Model.Tolerance
	}
	if file.Model.FlowThreshold != 0 {
		out.Model.FlowThreshold = file.Model.FlowThreshold
	}
	if file.Model.Seed != 0 {
		out.Model.Seed = file.Model.Seed
	}
	if file.Model.AttackSampleSize != 0 {
		out.Model.AttackSampleSize = file.Model.AttackSampleSize
	}
	if file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		out.Logging.Format = file.Logging.Format
	}
	if file.Paths.DataDir != "" {
		out.Paths.DataDir = file.Paths.DataDir
	}
	if file.Paths.CacheDir != "" {
		out.Paths.CacheDir = file.Paths.CacheDir
	}
	if file.Paths.ReportsDir != "" {
		out.Paths.ReportsDir = file.Paths.ReportsDir
	}
	return out
}

// Validate checks the configuration for invalid parameter combinations
func (c *Config) Validate() error {
	if c.Model.IterationCap < 1 {
		return fmt.Errorf("model.iteration_cap must be at least 1, got %d", c.Model.IterationCap)
	}
	if c.Model.Tolerance < 0 {
		return fmt.Errorf("model.tolerance must be non-negative, got %g", c.Model.Tolerance)
	}
	if c.Model.FlowThreshold < 0 {
		return fmt.Errorf("model.flow_threshold must be non-negative, got %g", c.Model.FlowThreshold)
	}
	if c.Model.AttackSampleSize < 2 {
		return fmt.Errorf("model.attack_sample_size must be at least 2, got %d", c.Model.AttackSampleSize)
	}
	switch c.Model.Normalisation {
	case "none", "weak", "strong":
	default:
		return fmt.Errorf("model.normalisation must be one of none, weak, strong, got %q", c.Model.Normalisation)
	}
	switch c.Data.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("data.format must be csv or xlsx, got %q", c.Data.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// EnsureDirs creates the cache and reports directories if they do not exist
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.ReportsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportDir returns the directory for a single named report run
func (c *Config) ReportDir(runID string) string {
	return filepath.Join(c.Paths.ReportsDir, "report_"+runID)
}

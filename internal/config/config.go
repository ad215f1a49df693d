package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/loanlens.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig contains risk analysis thresholds and tuning
type AnalysisConfig struct {
	AcceptableDefaultRatePct   float64  `yaml:"acceptable_default_rate_pct" envconfig:"ACCEPTABLE_DEFAULT_RATE_PCT" default:"15.0" validate:"gt=0,lte=100"`
	ExposureReviewThresholdPct float64  `yaml:"exposure_review_threshold_pct" envconfig:"EXPOSURE_REVIEW_THRESHOLD_PCT" default:"20.0" validate:"gt=0,lte=100"`
	HighRiskGrades             []string `yaml:"high_risk_grades" envconfig:"HIGH_RISK_GRADES" default:"F,G" validate:"min=1,dive,oneof=A B C D E F G"`
	MaxConcurrency             int      `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"1" validate:"gte=1"`
	SampleFraction             float64  `yaml:"sample_fraction" envconfig:"SAMPLE_FRACTION" default:"0" validate:"gte=0,lt=1"`
	SampleSeed                 int64    `yaml:"sample_seed" envconfig:"SAMPLE_SEED" default:"42"`
}

// OutputConfig controls how results are written
type OutputConfig struct {
	CSVPrecision  int  `yaml:"csv_precision" envconfig:"CSV_PRECISION" default:"4" validate:"gte=0,lte=10"`
	IncludeRollup bool `yaml:"include_rollup" envconfig:"INCLUDE_ROLLUP" default:"true"`
	ExportCleaned bool `yaml:"export_cleaned" envconfig:"EXPORT_CLEANED" default:"false"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using an explicit config file path.
// A missing file is not an error; defaults and environment apply.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Environment variables take precedence over the file
	if err := envconfig.Process("LOANLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
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

// mergeConfigs merges file config with env config (env takes precedence).
// envconfig fills defaults even when no env var is set, so a value still at
// its default is taken from the file when the file specifies one.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig
	def := defaults()

	if merged.Logging.Level == def.Logging.Level && fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if merged.Logging.Format == def.Logging.Format && fileConfig.Logging.Format != "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if merged.Logging.Output == def.Logging.Output && fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if merged.Logging.FilePath == def.Logging.FilePath && fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if merged.Paths.DataDir == def.Paths.DataDir && fileConfig.Paths.DataDir != "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if merged.Paths.ReportsDir == def.Paths.ReportsDir && fileConfig.Paths.ReportsDir != "" {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if merged.Paths.LogsDir == def.Paths.LogsDir && fileConfig.Paths.LogsDir != "" {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if merged.Analysis.AcceptableDefaultRatePct == def.Analysis.AcceptableDefaultRatePct && fileConfig.Analysis.AcceptableDefaultRatePct != 0 {
		merged.Analysis.AcceptableDefaultRatePct = fileConfig.Analysis.AcceptableDefaultRatePct
	}
	if merged.Analysis.ExposureReviewThresholdPct == def.Analysis.ExposureReviewThresholdPct && fileConfig.Analysis.ExposureReviewThresholdPct != 0 {
		merged.Analysis.ExposureReviewThresholdPct = fileConfig.Analysis.ExposureReviewThresholdPct
	}
	if len(fileConfig.Analysis.HighRiskGrades) > 0 && equalStrings(merged.Analysis.HighRiskGrades, def.Analysis.HighRiskGrades) {
		merged.Analysis.HighRiskGrades = fileConfig.Analysis.HighRiskGrades
	}
	if merged.Analysis.MaxConcurrency == def.Analysis.MaxConcurrency && fileConfig.Analysis.MaxConcurrency != 0 {
		merged.Analysis.MaxConcurrency = fileConfig.Analysis.MaxConcurrency
	}
	if merged.Analysis.SampleFraction == def.Analysis.SampleFraction && fileConfig.Analysis.SampleFraction != 0 {
		merged.Analysis.SampleFraction = fileConfig.Analysis.SampleFraction
	}
	if merged.Analysis.SampleSeed == def.Analysis.SampleSeed && fileConfig.Analysis.SampleSeed != 0 {
		merged.Analysis.SampleSeed = fileConfig.Analysis.SampleSeed
	}
	if merged.Output.CSVPrecision == def.Output.CSVPrecision && fileConfig.Output.CSVPrecision != 0 {
		merged.Output.CSVPrecision = fileConfig.Output.CSVPrecision
	}

	return merged
}

// defaults returns a Config carrying only the envconfig default values
func defaults() Config {
	var cfg Config
	// envconfig.Process with no matching env vars set applies struct defaults;
	// an unknown prefix keeps real environment out of the comparison baseline.
	_ = envconfig.Process("LOANLENS_DEFAULTS_BASELINE", &cfg)
	return cfg
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// resolvePaths sets up the executable directory
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	c.Paths.ExecutableDir = paths.ExecutableDir
	return nil
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Analysis.SampleFraction < 0 || c.Analysis.SampleFraction >= 1 {
		return fmt.Errorf("sample_fraction must be in [0, 1): %v", c.Analysis.SampleFraction)
	}
	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	if filepath.IsAbs(c.Paths.DataDir) {
		return c.Paths.DataDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.DataDir)
}

// GetReportsDir returns the resolved reports directory path
func (c *Config) GetReportsDir() string {
	if filepath.IsAbs(c.Paths.ReportsDir) {
		return c.Paths.ReportsDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.ReportsDir)
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	if filepath.IsAbs(c.Paths.LogsDir) {
		return c.Paths.LogsDir
	}
	return filepath.Join(c.Paths.ExecutableDir, c.Paths.LogsDir)
}

// getConfigFilePath returns the default config file location
func getConfigFilePath() string {
	paths, err := GetPaths()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(paths.ExecutableDir, "config.yaml")
}

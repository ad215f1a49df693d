// Package config provides centralized configuration management for LoanLens.
// It handles loading configuration from multiple sources, validation, and
// provides a type-safe API for accessing configuration values throughout the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml next to the executable)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LOANLENS_* for namespacing:
//
//	LOANLENS_LOGGING_LEVEL=debug
//	LOANLENS_PATHS_DATA_DIR=/srv/loanlens/data
//	LOANLENS_ANALYSIS_SAMPLE_FRACTION=0.1
//	LOANLENS_OUTPUT_CSV_PRECISION=6
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, _ := config.GetPaths()
//	dataset := paths.GetDataPath("loans.csv")
//	report := paths.GetReportPath("grade_metrics.csv")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

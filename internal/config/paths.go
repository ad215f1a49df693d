package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; everything is
// resolved relative to the executable directory, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Well-known output files
	GradeMetricsCSV   string
	GradeRollupCSV    string
	GradeMetricsJSON  string
	SummaryReportFile string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	//   data/      (input datasets: .csv / .xlsx)
	//   reports/   (generated tables and the narrative report)
	//   logs/      (application logs)
	return PathsFor(exeDir,
		filepath.Join(exeDir, "data"),
		filepath.Join(exeDir, "reports"),
		filepath.Join(exeDir, "logs")), nil
}

// PathsFor builds a Paths rooted at explicit directories, used when config
// or command-line flags override the executable-relative defaults
func PathsFor(executableDir, dataDir, reportsDir, logsDir string) *Paths {
	return &Paths{
		ExecutableDir: executableDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       logsDir,

		GradeMetricsCSV:   filepath.Join(reportsDir, "subgrade_metrics.csv"),
		GradeRollupCSV:    filepath.Join(reportsDir, "grade_metrics.csv"),
		GradeMetricsJSON:  filepath.Join(reportsDir, "grade_metrics.json"),
		SummaryReportFile: filepath.Join(reportsDir, "portfolio_summary.txt"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetDataPath returns the path to a file in the data directory
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path to a file in the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path to a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

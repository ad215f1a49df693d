package loandata

import (
	"time"

	"loanlens/pkg/contracts/domain"
)

// Row-skip reasons counted in the load summary
const (
	SkipBadLoanAmount = "bad_loan_amnt"
	SkipBadIntRate    = "bad_int_rate"
	SkipShortRow      = "short_row"
	SkipSampledOut    = "sampled_out"
)

// LoadSummary describes one dataset load
type LoadSummary struct {
	SourcePath     string               `json:"source_path"`
	Format         domain.DatasetFormat `json:"format"`
	RowsRead       int                  `json:"rows_read"`
	RowsParsed     int                  `json:"rows_parsed"`
	RowsSkipped    int                  `json:"rows_skipped"`
	SkipReasons    map[string]int       `json:"skip_reasons,omitempty"`
	SampleFraction float64              `json:"sample_fraction,omitempty"`
	ColumnMapping  map[string]int       `json:"column_mapping"`
}

// CleaningSummary describes one eligibility-cleaning pass
type CleaningSummary struct {
	RowsBefore int      `json:"rows_before"`
	RowsAfter  int      `json:"rows_after"`
	Removed    int      `json:"removed"`
	RemovedPct *float64 `json:"removed_pct"`

	// Per-condition removal counts; each removed row is counted once,
	// under the first condition it failed
	MissingGrade      int `json:"missing_grade"`
	IneligibleStatus  int `json:"ineligible_status"`
	NonPositiveAmount int `json:"non_positive_amount"`
	NonPositiveRate   int `json:"non_positive_rate"`

	// Defaults observed in the cleaned set
	DefaultCount int      `json:"default_count"`
	DefaultPct   *float64 `json:"default_pct"`
}

// StatusCount is one row of a loan-status distribution
type StatusCount struct {
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Eligible bool   `json:"eligible"`
}

// GradeCount is one row of a grade distribution
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// DatasetInfo holds basic shape and quality facts about a loaded dataset
type DatasetInfo struct {
	Rows           int            `json:"rows"`
	Columns        int            `json:"columns"`
	NullCounts     map[string]int `json:"null_counts"`
	EstimatedBytes int64          `json:"estimated_bytes"`
}

// FileInfo describes a discovered dataset file
type FileInfo struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

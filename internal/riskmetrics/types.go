package riskmetrics

import (
	"time"
)

// GradeMetrics contains the computed statistics for one grade or
// (grade, sub_grade) group. Pointer fields are undefined statistics:
// nil means "no value", serialized as JSON null and an empty CSV cell.
type GradeMetrics struct {
	Grade    string `json:"grade"`
	SubGrade string `json:"sub_grade"`

	// Status counts over the filtered group
	TotalLoans      int `json:"total_loans"`
	ChargedOffLoans int `json:"charged_off_loans"`
	FullyPaidLoans  int `json:"fully_paid_loans"`
	CurrentLoans    int `json:"current_loans"`
	DefaultLoans    int `json:"default_loans"`

	// (charged off + default) / total; nil when the group is empty
	DefaultRate *float64 `json:"default_rate"`

	// Loan amount statistics
	AvgLoanAmount    *float64 `json:"avg_loan_amount"`
	MedianLoanAmount *float64 `json:"median_loan_amount"`
	StdLoanAmount    *float64 `json:"std_loan_amount"`
	TotalVolume      float64  `json:"total_volume"`

	// Interest rate statistics (percent)
	AvgInterestRate    *float64 `json:"avg_interest_rate"`
	MedianInterestRate *float64 `json:"median_interest_rate"`
	MinInterestRate    *float64 `json:"min_interest_rate"`
	MaxInterestRate    *float64 `json:"max_interest_rate"`

	// Borrower statistics over non-null inputs only
	AvgAnnualIncome    *float64 `json:"avg_annual_income"`
	MedianAnnualIncome *float64 `json:"median_annual_income"`
	AvgDebtToIncome    *float64 `json:"avg_debt_to_income"`
	AvgEmpLengthYears  *float64 `json:"avg_emp_length_years"`

	// avg_interest_rate * (1 - default_rate)
	ExpectedReturnRate *float64 `json:"expected_return_rate"`

	// Distinct issue months observed in the group
	MonthsRepresented int `json:"months_represented"`

	// Concentration shares, populated on grade rollup rows only
	LoanSharePct   *float64 `json:"loan_share_pct,omitempty"`
	VolumeSharePct *float64 `json:"volume_share_pct,omitempty"`
}

// Result is the full output of one aggregation run
type Result struct {
	// BySubGrade holds one row per observed (grade, sub_grade) pair,
	// sorted by grade then sub_grade
	BySubGrade []GradeMetrics `json:"by_sub_grade"`

	// ByGrade holds the rollup: one row per canonical grade A-G,
	// including grades with zero eligible records
	ByGrade []GradeMetrics `json:"by_grade"`

	InputRecords    int       `json:"input_records"`
	EligibleRecords int       `json:"eligible_records"`
	ComputedAt      time.Time `json:"computed_at"`
}

// Options configures the aggregator
type Options struct {
	// MaxConcurrency caps parallel per-group reduction; 1 means sequential
	MaxConcurrency int

	// HighRiskGrades are treated as speculative exposure in insights
	HighRiskGrades []string

	// AcceptableDefaultRatePct flags grades above this default rate (percent)
	AcceptableDefaultRatePct float64

	// ExposureReviewThresholdPct triggers REVIEW_EXPOSURE above this
	// high-risk volume share (percent)
	ExposureReviewThresholdPct float64
}

// DefaultOptions returns the standard analysis thresholds
func DefaultOptions() Options {
	return Options{
		MaxConcurrency:             1,
		HighRiskGrades:             []string{"F", "G"},
		AcceptableDefaultRatePct:   15.0,
		ExposureReviewThresholdPct: 20.0,
	}
}

// PortfolioMetrics contains whole-portfolio figures over the eligible set
type PortfolioMetrics struct {
	TotalLoans               int      `json:"total_loans"`
	TotalVolume              float64  `json:"total_volume"`
	AvgLoanSize              *float64 `json:"avg_loan_size"`
	OverallDefaultRate       *float64 `json:"overall_default_rate"`
	AvgInterestRate          *float64 `json:"avg_interest_rate"`
	TotalDefaults            int      `json:"total_defaults"`
	DefaultVolume            float64  `json:"default_volume"`
	MaxGradeConcentrationPct *float64 `json:"max_grade_concentration_pct"`
	HighRiskLoansPct         *float64 `json:"high_risk_loans_pct"`
	HighRiskVolumePct        *float64 `json:"high_risk_volume_pct"`
}

// GradeRiskPremium pairs a grade with its risk premium in percentage points
type GradeRiskPremium struct {
	Grade      string  `json:"grade"`
	PremiumPct float64 `json:"premium_pct"`
}

// RiskReturnAnalysis describes the risk/return tradeoff across grades
type RiskReturnAnalysis struct {
	// Pearson correlation between per-grade default rate and average
	// interest rate; nil with fewer than two populated grades
	Correlation *float64 `json:"risk_return_correlation"`

	// Per-grade avg_interest_rate - default_rate*100
	Premiums []GradeRiskPremium `json:"risk_premiums"`

	AvgPremiumPct *float64 `json:"avg_risk_premium_pct"`
	BestGrade     string   `json:"best_risk_return_grade"`
	WorstGrade    string   `json:"worst_risk_return_grade"`
}

// Risk assessment recommendations
const (
	RecommendationAcceptable     = "ACCEPTABLE"
	RecommendationReviewExposure = "REVIEW_EXPOSURE"
)

// RiskAssessment classifies the portfolio against configured thresholds
type RiskAssessment struct {
	AcceptableDefaultRatePct   float64  `json:"acceptable_default_rate_pct"`
	ExposureReviewThresholdPct float64  `json:"exposure_review_threshold_pct"`
	HighRiskGrades             []string `json:"high_risk_grades"`
	GradesOverThreshold        []string `json:"grades_over_threshold"`
	AcceptableGrades           []string `json:"acceptable_grades"`
	HighRiskExposurePct        *float64 `json:"high_risk_exposure_pct"`
	Recommendation             string   `json:"recommendation"`
}

// BusinessImpact holds the loss and revenue figures for the narrative report
type BusinessImpact struct {
	TotalDefaultLosses     float64  `json:"total_default_losses"`
	HighRiskDefaultLosses  float64  `json:"high_risk_default_losses"`
	PotentialLossReduction *float64 `json:"potential_loss_reduction_pct"`
	TotalInterestRevenue   float64  `json:"total_interest_revenue"`
	LossToRevenueRatio     *float64 `json:"loss_to_revenue_ratio_pct"`
}

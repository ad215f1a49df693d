package riskmetrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "loanlens/internal/errors"
)

// csvColumns is the published fine-grained column set. Downstream reporting
// depends on these exact names and this exact order.
var csvColumns = []string{
	"grade",
	"sub_grade",
	"total_loans",
	"charged_off_loans",
	"fully_paid_loans",
	"current_loans",
	"default_loans",
	"default_rate",
	"avg_loan_amount",
	"median_loan_amount",
	"std_loan_amount",
	"total_volume",
	"avg_interest_rate",
	"median_interest_rate",
	"min_interest_rate",
	"max_interest_rate",
	"avg_annual_income",
	"median_annual_income",
	"avg_debt_to_income",
	"avg_emp_length_years",
	"expected_return_rate",
	"months_represented",
}

// rollupColumns appends the concentration shares present only on grade rows
var rollupColumns = append(append([]string{}, csvColumns...),
	"loan_share_pct",
	"volume_share_pct",
)

// SaveToCSV writes the fine-grained (grade, sub_grade) metrics table.
// Undefined statistics render as empty cells, never as zero.
func SaveToCSV(metrics []GradeMetrics, outputPath string, precision int) error {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, metricRow(m, precision, false))
	}
	return writeCSVFile(outputPath, csvColumns, rows)
}

// SaveRollupCSV writes the per-grade rollup including concentration shares
func SaveRollupCSV(metrics []GradeMetrics, outputPath string, precision int) error {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, metricRow(m, precision, true))
	}
	return writeCSVFile(outputPath, rollupColumns, rows)
}

// SaveToJSON writes the whole result as indented JSON, undefined as null
func SaveToJSON(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("marshal result", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return apperrors.NewStorageError("write JSON file", err)
	}
	return nil
}

// SaveSummaryReport writes the narrative plain-text report for stakeholders
func SaveSummaryReport(result *Result, portfolio PortfolioMetrics, riskReturn RiskReturnAnalysis, assessment RiskAssessment, impact BusinessImpact, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	var b strings.Builder

	b.WriteString("LOAN PORTFOLIO RISK SUMMARY\n")
	b.WriteString("===========================\n\n")
	fmt.Fprintf(&b, "Computed at: %s\n", result.ComputedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Records analyzed: %d of %d loaded (%d excluded by eligibility rules)\n\n",
		result.EligibleRecords, result.InputRecords, result.InputRecords-result.EligibleRecords)

	b.WriteString("PORTFOLIO OVERVIEW\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Total loans:           %d\n", portfolio.TotalLoans)
	fmt.Fprintf(&b, "Total volume:          $%.0f\n", portfolio.TotalVolume)
	fmt.Fprintf(&b, "Average loan size:     %s\n", dollarOrNA(portfolio.AvgLoanSize))
	fmt.Fprintf(&b, "Overall default rate:  %s\n", pctOrNA(scale(portfolio.OverallDefaultRate, 100)))
	fmt.Fprintf(&b, "Average interest rate: %s\n", pctOrNA(portfolio.AvgInterestRate))
	fmt.Fprintf(&b, "High-risk exposure:    %s of loans, %s of volume\n\n",
		pctOrNA(portfolio.HighRiskLoansPct), pctOrNA(portfolio.HighRiskVolumePct))

	b.WriteString("DEFAULT RATE BY GRADE\n")
	b.WriteString("---------------------\n")
	for _, g := range result.ByGrade {
		fmt.Fprintf(&b, "Grade %s: %6d loans, default rate %s\n",
			g.Grade, g.TotalLoans, pctOrNA(scale(g.DefaultRate, 100)))
	}
	b.WriteString("\n")

	b.WriteString("RISK-RETURN ANALYSIS\n")
	b.WriteString("--------------------\n")
	fmt.Fprintf(&b, "Risk-return correlation: %s\n", floatOrNA(riskReturn.Correlation, 3))
	fmt.Fprintf(&b, "Average risk premium:    %s\n", pctOrNA(riskReturn.AvgPremiumPct))
	fmt.Fprintf(&b, "Best risk-return grade:  %s\n", orNA(riskReturn.BestGrade))
	fmt.Fprintf(&b, "Worst risk-return grade: %s\n\n", orNA(riskReturn.WorstGrade))

	b.WriteString("RISK ASSESSMENT\n")
	b.WriteString("---------------\n")
	fmt.Fprintf(&b, "Acceptable default rate:  %.1f%%\n", assessment.AcceptableDefaultRatePct)
	fmt.Fprintf(&b, "Grades over threshold:    %s\n", listOrNone(assessment.GradesOverThreshold))
	fmt.Fprintf(&b, "High-risk exposure:       %s of volume\n", pctOrNA(assessment.HighRiskExposurePct))
	fmt.Fprintf(&b, "Recommendation:           %s\n\n", assessment.Recommendation)

	b.WriteString("BUSINESS IMPACT\n")
	b.WriteString("---------------\n")
	fmt.Fprintf(&b, "Total default losses:     $%.0f\n", impact.TotalDefaultLosses)
	fmt.Fprintf(&b, "High-risk grade losses:   $%.0f\n", impact.HighRiskDefaultLosses)
	fmt.Fprintf(&b, "Potential loss reduction: %s\n", pctOrNA(impact.PotentialLossReduction))
	fmt.Fprintf(&b, "Total interest revenue:   $%.0f\n", impact.TotalInterestRevenue)
	fmt.Fprintf(&b, "Loss-to-revenue ratio:    %s\n", pctOrNA(impact.LossToRevenueRatio))

	if err := os.WriteFile(outputPath, []byte(b.String()), 0644); err != nil {
		return apperrors.NewStorageError("write summary report", err)
	}
	return nil
}

// metricRow formats one metrics row in column order
func metricRow(m GradeMetrics, precision int, rollup bool) []string {
	row := []string{
		m.Grade,
		m.SubGrade,
		strconv.Itoa(m.TotalLoans),
		strconv.Itoa(m.ChargedOffLoans),
		strconv.Itoa(m.FullyPaidLoans),
		strconv.Itoa(m.CurrentLoans),
		strconv.Itoa(m.DefaultLoans),
		formatOptional(m.DefaultRate, precision),
		formatOptional(m.AvgLoanAmount, precision),
		formatOptional(m.MedianLoanAmount, precision),
		formatOptional(m.StdLoanAmount, precision),
		strconv.FormatFloat(m.TotalVolume, 'f', precision, 64),
		formatOptional(m.AvgInterestRate, precision),
		formatOptional(m.MedianInterestRate, precision),
		formatOptional(m.MinInterestRate, precision),
		formatOptional(m.MaxInterestRate, precision),
		formatOptional(m.AvgAnnualIncome, precision),
		formatOptional(m.MedianAnnualIncome, precision),
		formatOptional(m.AvgDebtToIncome, precision),
		formatOptional(m.AvgEmpLengthYears, precision),
		formatOptional(m.ExpectedReturnRate, precision),
		strconv.Itoa(m.MonthsRepresented),
	}
	if rollup {
		row = append(row,
			formatOptional(m.LoanSharePct, precision),
			formatOptional(m.VolumeSharePct, precision),
		)
	}
	return row
}

// formatOptional renders an undefined statistic as an empty cell
func formatOptional(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

// writeCSVFile writes a BOM-prefixed CSV table
func writeCSVFile(outputPath string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return apperrors.NewStorageError("create CSV file", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel opens the file correctly
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperrors.NewStorageError("write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return apperrors.NewStorageError("write CSV header", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("write CSV row %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("flush CSV file", err)
	}
	return nil
}

// Formatting helpers for the narrative report

func pctOrNA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

func dollarOrNA(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("$%.0f", *v)
}

func floatOrNA(v *float64, precision int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

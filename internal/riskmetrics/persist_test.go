package riskmetrics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveToCSV_HeaderIsExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subgrade_metrics.csv")
	result := computeFixture(t)

	require.NoError(t, SaveToCSV(result.BySubGrade, path, 4))

	header, rows := readCSV(t, path)
	assert.Equal(t, []string{
		"grade", "sub_grade", "total_loans", "charged_off_loans",
		"fully_paid_loans", "current_loans", "default_loans", "default_rate",
		"avg_loan_amount", "median_loan_amount", "std_loan_amount",
		"total_volume", "avg_interest_rate", "median_interest_rate",
		"min_interest_rate", "max_interest_rate", "avg_annual_income",
		"median_annual_income", "avg_debt_to_income", "avg_emp_length_years",
		"expected_return_rate", "months_represented",
	}, header)
	assert.Len(t, rows, len(result.BySubGrade))
}

func TestSaveToCSV_UndefinedRendersEmptyCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")

	metrics := []GradeMetrics{reduceGroup("F", "", nil)}
	require.NoError(t, SaveToCSV(metrics, path, 4))

	_, rows := readCSV(t, path)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "F", row[0])
	assert.Equal(t, "0", row[2], "total_loans")
	assert.Equal(t, "", row[7], "default_rate must be empty, not zero")
	assert.Equal(t, "", row[8], "avg_loan_amount")
	assert.Equal(t, "", row[20], "expected_return_rate")
}

func TestSaveToCSV_BOMPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, SaveToCSV(nil, path, 4))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3])
}

func TestSaveRollupCSV_AppendsShareColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grade_metrics.csv")
	result := computeFixture(t)

	require.NoError(t, SaveRollupCSV(result.ByGrade, path, 4))

	header, rows := readCSV(t, path)
	require.Len(t, header, 24)
	assert.Equal(t, "loan_share_pct", header[22])
	assert.Equal(t, "volume_share_pct", header[23])
	require.Len(t, rows, 7)

	// Grade A holds 2 of 4 loans
	assert.Equal(t, "A", rows[0][0])
	assert.Equal(t, "", rows[0][1], "rollup rows carry no sub_grade")
	assert.Equal(t, "50.0000", rows[0][22])
}

func TestSaveToJSON_UndefinedIsNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")

	agg := NewAggregator(nil, DefaultOptions())
	result, err := agg.Compute(context.Background(), insightsFixture())
	require.NoError(t, err)

	require.NoError(t, SaveToJSON(result, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Empty grades serialize their rates as explicit nulls
	assert.Contains(t, string(raw), `"default_rate": null`)

	var decoded Result
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.ByGrade, 7)
	assert.Equal(t, result.EligibleRecords, decoded.EligibleRecords)

	gradeB := findGrade(t, decoded.ByGrade, "B")
	assert.Nil(t, gradeB.DefaultRate)
}

func TestSaveSummaryReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")

	result := computeFixture(t)
	records := insightsFixture()
	opts := DefaultOptions()

	portfolio := ComputePortfolioMetrics(records, result.ByGrade, opts.HighRiskGrades)
	riskReturn := ComputeRiskReturn(result.ByGrade)
	assessment := AssessRisk(result.ByGrade, opts)
	impact := ComputeBusinessImpact(records, opts.HighRiskGrades)

	require.NoError(t, SaveSummaryReport(result, portfolio, riskReturn, assessment, impact, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(raw)

	for _, section := range []string{
		"PORTFOLIO OVERVIEW",
		"DEFAULT RATE BY GRADE",
		"RISK-RETURN ANALYSIS",
		"RISK ASSESSMENT",
		"BUSINESS IMPACT",
	} {
		assert.Contains(t, report, section)
	}

	assert.Contains(t, report, "Total loans:           4")
	assert.Contains(t, report, "Recommendation:           REVIEW_EXPOSURE")

	// Empty grades render as n/a rather than zero
	assert.Contains(t, report, "Grade B:      0 loans, default rate n/a")
}

func TestWriteCSVFile_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.csv")
	require.NoError(t, SaveToCSV(nil, path, 2))
	assert.FileExists(t, path)
}

// readCSV parses a written file, stripping the BOM
func readCSV(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	return records[0], records[1:]
}

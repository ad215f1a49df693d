package exporter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/internal/loandata"
	"loanlens/pkg/contracts/domain"
)

func TestExportCleanedRecords(t *testing.T) {
	paths := testPaths(t)
	exporter := NewRecordExporter(NewCSVWriter(paths))

	inc := 85000.0
	dti := 12.34
	issued := time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.LoanRecord{
		{
			Grade: "A", SubGrade: "A1", LoanStatus: "Fully Paid",
			LoanAmount: 10000, IntRate: 7.5,
			AnnualInc: &inc, DTI: &dti,
			EmpLength: "5 years", IssueDate: &issued,
		},
		{
			Grade: "G", SubGrade: "G5", LoanStatus: "Charged Off",
			LoanAmount: 25000, IntRate: 28.99,
		},
	}

	require.NoError(t, exporter.ExportCleanedRecords(records, "data/loans_cleaned.csv"))

	content, err := os.ReadFile(paths.GetDataPath("loans_cleaned.csv"))
	require.NoError(t, err)

	expected := "grade,sub_grade,loan_status,loan_amnt,int_rate,annual_inc,dti,emp_length,issue_d\n" +
		"A,A1,Fully Paid,10000.00,7.50,85000.00,12.34,5 years,2018-03\n" +
		"G,G5,Charged Off,25000.00,28.99,,,,\n"
	assert.Equal(t, expected, string(content[3:]))
}

func TestExportCleanedRecords_RoundTrips(t *testing.T) {
	paths := testPaths(t)
	exporter := NewRecordExporter(NewCSVWriter(paths))

	records := []domain.LoanRecord{
		{Grade: "B", SubGrade: "B3", LoanStatus: "Current", LoanAmount: 5000, IntRate: 11.2},
	}
	require.NoError(t, exporter.ExportCleanedRecords(records, "data/clean.csv"))

	// The export uses the input schema, so the loader can read it back
	loaded, _, err := loandata.NewLoader(nil, loandata.LoadOptions{}).
		LoadCSV(context.Background(), paths.GetDataPath("clean.csv"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "B3", loaded[0].SubGrade)
	assert.InDelta(t, 11.2, loaded[0].IntRate, 1e-9)
}

func TestExportStatusDistribution(t *testing.T) {
	paths := testPaths(t)
	exporter := NewRecordExporter(NewCSVWriter(paths))

	statuses := []loandata.StatusCount{
		{Status: "Fully Paid", Count: 10, Eligible: true},
		{Status: "Late (31-120 days)", Count: 3, Eligible: false},
	}
	require.NoError(t, exporter.ExportStatusDistribution(statuses, "status_distribution.csv"))

	content, err := os.ReadFile(paths.GetReportPath("status_distribution.csv"))
	require.NoError(t, err)
	expected := "loan_status,count,eligible\n" +
		"Fully Paid,10,true\n" +
		"Late (31-120 days),3,false\n"
	assert.Equal(t, expected, string(content[3:]))
}

func TestExportGradeDistribution(t *testing.T) {
	paths := testPaths(t)
	exporter := NewRecordExporter(NewCSVWriter(paths))

	grades := []loandata.GradeCount{
		{Grade: "A", Count: 4},
		{Grade: "G", Count: 1},
	}
	require.NoError(t, exporter.ExportGradeDistribution(grades, "grade_distribution.csv"))

	content, err := os.ReadFile(paths.GetReportPath("grade_distribution.csv"))
	require.NoError(t, err)
	assert.Equal(t, "grade,count\nA,4\nG,1\n", string(content[3:]))
}

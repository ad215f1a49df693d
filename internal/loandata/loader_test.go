package loandata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "loanlens/internal/errors"
)

const sampleCSV = `grade,sub_grade,loan_status,loan_amnt,int_rate,annual_inc,dti,emp_length,issue_d
A,A1,Fully Paid,10000,7.50%,85000,12.3,5 years,Jan-2018
B,B2,Charged Off,15000,11.20,,,"10+ years",2018-03
C,C3,Current,20000,14.00,60000,22.8,n/a,
G,G5,Default,25000,28.99%,45000,30.1,< 1 year,2019-07-01
`

func writeCSVFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loans.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{})
	records, summary, err := loader.LoadCSV(context.Background(), writeCSVFile(t, sampleCSV))
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, 4, summary.RowsRead)
	assert.Equal(t, 4, summary.RowsParsed)
	assert.Equal(t, 0, summary.RowsSkipped)

	first := records[0]
	assert.Equal(t, "A", first.Grade)
	assert.Equal(t, "A1", first.SubGrade)
	assert.Equal(t, "Fully Paid", first.LoanStatus)
	assert.Equal(t, 10000.0, first.LoanAmount)
	assert.InDelta(t, 7.50, first.IntRate, 1e-9, "percent sign is stripped")
	require.NotNil(t, first.AnnualInc)
	assert.Equal(t, 85000.0, *first.AnnualInc)
	require.NotNil(t, first.DTI)
	assert.Equal(t, 12.3, *first.DTI)
	assert.Equal(t, "5 years", first.EmpLength)
	require.NotNil(t, first.IssueDate)
	assert.Equal(t, time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC), *first.IssueDate)

	// Missing optional values become explicit nulls, not zeros
	second := records[1]
	assert.Nil(t, second.AnnualInc)
	assert.Nil(t, second.DTI)
	require.NotNil(t, second.IssueDate)
	assert.Equal(t, time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC), *second.IssueDate)

	// "n/a" employment length is a null spelling
	third := records[2]
	assert.Equal(t, "", third.EmpLength)
	assert.Nil(t, third.IssueDate)

	fourth := records[3]
	assert.InDelta(t, 28.99, fourth.IntRate, 1e-9)
	require.NotNil(t, fourth.IssueDate)
	assert.Equal(t, time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC), *fourth.IssueDate)
}

func TestLoadCSV_MissingRequiredColumn(t *testing.T) {
	// No loan_amnt column
	content := "grade,sub_grade,loan_status,int_rate\nA,A1,Fully Paid,7.5\n"
	loader := NewLoader(nil, LoadOptions{})

	_, _, err := loader.LoadCSV(context.Background(), writeCSVFile(t, content))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrColumnMissing))
	assert.Contains(t, err.Error(), "loan_amnt")
}

func TestLoadCSV_ColumnAliases(t *testing.T) {
	content := "Grade,SubGrade,Status,Loan_Amount,Interest_Rate\nB,B4,Current,9000,10.1\n"
	loader := NewLoader(nil, LoadOptions{})

	records, _, err := loader.LoadCSV(context.Background(), writeCSVFile(t, content))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].Grade)
	assert.Equal(t, "B4", records[0].SubGrade)
	assert.Equal(t, 9000.0, records[0].LoanAmount)
	assert.InDelta(t, 10.1, records[0].IntRate, 1e-9)
}

func TestLoadCSV_MalformedRequiredValueSkipsRow(t *testing.T) {
	content := `grade,sub_grade,loan_status,loan_amnt,int_rate
A,A1,Fully Paid,not-a-number,7.5
B,B1,Fully Paid,5000,junk
C,C1,Fully Paid,6000,13.0
`
	loader := NewLoader(nil, LoadOptions{})
	records, summary, err := loader.LoadCSV(context.Background(), writeCSVFile(t, content))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "C", records[0].Grade)
	assert.Equal(t, 2, summary.RowsSkipped)
	assert.Equal(t, 1, summary.SkipReasons[SkipBadLoanAmount])
	assert.Equal(t, 1, summary.SkipReasons[SkipBadIntRate])
}

func TestLoadCSV_SamplingIsDeterministic(t *testing.T) {
	var content = "grade,sub_grade,loan_status,loan_amnt,int_rate\n"
	for i := 0; i < 200; i++ {
		content += "A,A1,Fully Paid,1000,7.5\n"
	}
	path := writeCSVFile(t, content)

	opts := LoadOptions{SampleFraction: 0.3, SampleSeed: 7}
	first, _, err := NewLoader(nil, opts).LoadCSV(context.Background(), path)
	require.NoError(t, err)
	second, _, err := NewLoader(nil, opts).LoadCSV(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second), "equal seeds sample identically")
	assert.Greater(t, len(first), 0)
	assert.Less(t, len(first), 200)

	// A different seed picks a different subset size or ordering
	third, _, err := NewLoader(nil, LoadOptions{SampleFraction: 0.3, SampleSeed: 8}).
		LoadCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Greater(t, len(third), 0)
}

func TestLoadCSV_MaxRows(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{MaxRows: 2})
	records, summary, err := loader.LoadCSV(context.Background(), writeCSVFile(t, sampleCSV))
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 2, summary.RowsParsed)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{})
	_, _, err := loader.LoadCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.xlsx")
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	rows := [][]interface{}{
		{"grade", "sub_grade", "loan_status", "loan_amnt", "int_rate", "annual_inc"},
		{"A", "A2", "Fully Paid", 12000, "8.5%", 90000},
		{"D", "D1", "Charged Off", 18000, 19.2, nil},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cellRef, &row))
	}
	require.NoError(t, workbook.SaveAs(path))
	require.NoError(t, workbook.Close())

	loader := NewLoader(nil, LoadOptions{})
	records, summary, err := loader.LoadXLSX(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Grade)
	assert.InDelta(t, 8.5, records[0].IntRate, 1e-9)
	require.NotNil(t, records[0].AnnualInc)
	assert.Equal(t, 90000.0, *records[0].AnnualInc)
	assert.Nil(t, records[1].AnnualInc)
	assert.Equal(t, 2, summary.RowsParsed)
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	loader := NewLoader(nil, LoadOptions{})

	records, _, err := loader.Load(context.Background(), writeCSVFile(t, sampleCSV))
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, _, err = loader.Load(context.Background(), "loans.parquet")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
}

func TestLoadCSV_BOMHeader(t *testing.T) {
	content := "\ufeffgrade,sub_grade,loan_status,loan_amnt,int_rate\nA,A1,Current,1000,5.5\n"
	loader := NewLoader(nil, LoadOptions{})

	records, _, err := loader.LoadCSV(context.Background(), writeCSVFile(t, content))
	require.NoError(t, err)
	require.Len(t, records, 1)
}

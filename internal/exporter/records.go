package exporter

import (
	"fmt"
	"log/slog"

	"loanlens/internal/loandata"
	"loanlens/pkg/contracts/domain"
)

// recordPrecision is the number of decimal places used for numeric cells in
// cleaned-record exports
const recordPrecision = 2

// issueDateLayout is the month-precision layout used for issue_d cells
const issueDateLayout = "2006-01"

// cleanedHeaders is the column order of a cleaned-record export, matching the
// input schema so the file can feed a later run
var cleanedHeaders = []string{
	loandata.ColGrade,
	loandata.ColSubGrade,
	loandata.ColLoanStatus,
	loandata.ColLoanAmount,
	loandata.ColIntRate,
	loandata.ColAnnualInc,
	loandata.ColDTI,
	loandata.ColEmpLength,
	loandata.ColIssueDate,
}

// RecordExporter streams cleaned loan records and distribution tables to CSV
type RecordExporter struct {
	writer *CSVWriter
}

// NewRecordExporter creates a record exporter on top of a CSV writer
func NewRecordExporter(writer *CSVWriter) *RecordExporter {
	return &RecordExporter{writer: writer}
}

// ExportCleanedRecords streams the cleaned dataset to filePath using the
// input column schema, one row per record
func (e *RecordExporter) ExportCleanedRecords(records []domain.LoanRecord, filePath string) error {
	stream, err := e.writer.CreateStreamWriter(filePath, cleanedHeaders)
	if err != nil {
		return fmt.Errorf("failed to create cleaned-record stream: %w", err)
	}

	for i, rec := range records {
		if err := stream.WriteRecord(recordRow(rec)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close cleaned-record stream: %w", err)
	}

	slog.Info("Exported cleaned records",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(records)))
	return nil
}

// ExportStatusDistribution writes a loan-status distribution table
func (e *RecordExporter) ExportStatusDistribution(statuses []loandata.StatusCount, filePath string) error {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.Status, formatInt(s.Count), formatBool(s.Eligible)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"loan_status", "count", "eligible"}, rows)
}

// ExportGradeDistribution writes a grade distribution table
func (e *RecordExporter) ExportGradeDistribution(grades []loandata.GradeCount, filePath string) error {
	rows := make([][]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []string{g.Grade, formatInt(g.Count)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"grade", "count"}, rows)
}

func recordRow(rec domain.LoanRecord) []string {
	issued := ""
	if rec.IssueDate != nil {
		issued = rec.IssueDate.Format(issueDateLayout)
	}
	return []string{
		rec.Grade,
		rec.SubGrade,
		rec.LoanStatus,
		formatFloat(rec.LoanAmount, recordPrecision),
		formatFloat(rec.IntRate, recordPrecision),
		formatOptionalFloat(rec.AnnualInc, recordPrecision),
		formatOptionalFloat(rec.DTI, recordPrecision),
		rec.EmpLength,
		issued,
	}
}

package loandata

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "loanlens/internal/errors"
	"loanlens/pkg/contracts/domain"
)

// DefaultSampleSeed keeps repeated sampled loads identical across runs
const DefaultSampleSeed int64 = 42

// issueDateLayouts are tried in order when parsing issue_d
var issueDateLayouts = []string{
	"Jan-2006",
	"2006-01",
	"2006-01-02",
}

// LoadOptions configures dataset loading
type LoadOptions struct {
	// SampleFraction in (0,1) keeps roughly that share of rows,
	// deterministically; 0 disables sampling
	SampleFraction float64
	SampleSeed     int64
	// MaxRows caps parsed rows; 0 means unlimited
	MaxRows int
}

// Loader reads loan datasets from flat files
type Loader struct {
	logger *slog.Logger
	opts   LoadOptions
}

// NewLoader creates a dataset loader
func NewLoader(logger *slog.Logger, opts LoadOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SampleSeed == 0 {
		opts.SampleSeed = DefaultSampleSeed
	}
	return &Loader{logger: logger, opts: opts}
}

// Load dispatches on the file extension
func (l *Loader) Load(ctx context.Context, path string) ([]domain.LoanRecord, *LoadSummary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.LoadCSV(ctx, path)
	case ".xlsx":
		return l.LoadXLSX(ctx, path)
	default:
		return nil, nil, apperrors.NewValidationError("unsupported dataset format: " + filepath.Ext(path))
	}
}

// LoadCSV loads loan records from a CSV file with a header row
func (l *Loader) LoadCSV(ctx context.Context, path string) ([]domain.LoanRecord, *LoadSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("open dataset", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are skipped, not fatal
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, apperrors.NewParsingError("read CSV header", err).WithContext("path", path)
	}
	stripBOM(header)

	mapping, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	summary := newSummary(path, domain.FormatCSV, mapping, l.opts.SampleFraction)
	sampler := l.newSampler()

	var records []domain.LoanRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, apperrors.NewParsingError("dataset load cancelled", err)
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, apperrors.NewParsingError("read CSV row", err).WithContext("path", path)
		}

		summary.RowsRead++
		if !l.admitRow(summary, sampler) {
			continue
		}

		rec, reason := parseRow(row, mapping)
		if reason != "" {
			skip(summary, reason)
			continue
		}

		records = append(records, rec)
		summary.RowsParsed++
		if l.opts.MaxRows > 0 && summary.RowsParsed >= l.opts.MaxRows {
			break
		}
	}

	l.logLoad(ctx, summary)
	return records, summary, nil
}

// LoadXLSX loads loan records from the first sheet of an XLSX workbook
func (l *Loader) LoadXLSX(ctx context.Context, path string) ([]domain.LoanRecord, *LoadSummary, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("open workbook", err).WithContext("path", path)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperrors.NewParsingError("read sheet rows", err).WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.NewParsingError("sheet has no header row", nil).WithContext("path", path)
	}

	mapping, err := mapColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	summary := newSummary(path, domain.FormatXLSX, mapping, l.opts.SampleFraction)
	sampler := l.newSampler()

	var records []domain.LoanRecord
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, apperrors.NewParsingError("dataset load cancelled", err)
		}

		summary.RowsRead++
		if !l.admitRow(summary, sampler) {
			continue
		}

		rec, reason := parseRow(row, mapping)
		if reason != "" {
			skip(summary, reason)
			continue
		}

		records = append(records, rec)
		summary.RowsParsed++
		if l.opts.MaxRows > 0 && summary.RowsParsed >= l.opts.MaxRows {
			break
		}
	}

	l.logLoad(ctx, summary)
	return records, summary, nil
}

// newSampler returns the PRNG used for row sampling, nil when disabled
func (l *Loader) newSampler() *rand.Rand {
	if l.opts.SampleFraction <= 0 || l.opts.SampleFraction >= 1 {
		return nil
	}
	return rand.New(rand.NewSource(l.opts.SampleSeed))
}

// admitRow applies sampling; rejected rows are counted, not errors
func (l *Loader) admitRow(summary *LoadSummary, sampler *rand.Rand) bool {
	if sampler == nil {
		return true
	}
	if sampler.Float64() < l.opts.SampleFraction {
		return true
	}
	skip(summary, SkipSampledOut)
	return false
}

func (l *Loader) logLoad(ctx context.Context, summary *LoadSummary) {
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", summary.SourcePath),
		slog.String("format", string(summary.Format)),
		slog.Int("rows_read", summary.RowsRead),
		slog.Int("rows_parsed", summary.RowsParsed),
		slog.Int("rows_skipped", summary.RowsSkipped))
}

func newSummary(path string, format domain.DatasetFormat, mapping map[string]int, sampleFraction float64) *LoadSummary {
	return &LoadSummary{
		SourcePath:     path,
		Format:         format,
		SkipReasons:    make(map[string]int),
		SampleFraction: sampleFraction,
		ColumnMapping:  mapping,
	}
}

func skip(summary *LoadSummary, reason string) {
	summary.RowsSkipped++
	summary.SkipReasons[reason]++
}

// parseRow converts one data row to a LoanRecord. A malformed value in a
// required numeric field skips the row with a reason; optional fields
// degrade to nil/empty instead.
func parseRow(row []string, mapping map[string]int) (domain.LoanRecord, string) {
	grade, ok := cell(row, mapping, ColGrade)
	if !ok {
		return domain.LoanRecord{}, SkipShortRow
	}

	rec := domain.LoanRecord{Grade: grade}
	rec.SubGrade, _ = cell(row, mapping, ColSubGrade)
	rec.LoanStatus, _ = cell(row, mapping, ColLoanStatus)

	amountStr, ok := cell(row, mapping, ColLoanAmount)
	if !ok {
		return domain.LoanRecord{}, SkipShortRow
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil && amountStr != "" {
		return domain.LoanRecord{}, SkipBadLoanAmount
	}
	rec.LoanAmount = amount

	rateStr, ok := cell(row, mapping, ColIntRate)
	if !ok {
		return domain.LoanRecord{}, SkipShortRow
	}
	rate, err := parsePercent(rateStr)
	if err != nil && rateStr != "" {
		return domain.LoanRecord{}, SkipBadIntRate
	}
	rec.IntRate = rate

	if v, ok := cell(row, mapping, ColAnnualInc); ok {
		rec.AnnualInc = parseOptionalFloat(v)
	}
	if v, ok := cell(row, mapping, ColDTI); ok {
		rec.DTI = parseOptionalFloat(v)
	}
	if v, ok := cell(row, mapping, ColEmpLength); ok {
		rec.EmpLength = normalizeEmpLength(v)
	}
	if v, ok := cell(row, mapping, ColIssueDate); ok {
		rec.IssueDate = parseIssueDate(v)
	}

	return rec, ""
}

// cell fetches a mapped column from a row, tolerating short rows
func cell(row []string, mapping map[string]int, column string) (string, bool) {
	idx, ok := mapping[column]
	if !ok {
		return "", false
	}
	if idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}

// parsePercent parses a number that may carry a trailing percent sign,
// e.g. "13.56%" -> 13.56
func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
}

// parseOptionalFloat turns an empty or malformed cell into an explicit null
func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// normalizeEmpLength maps dataset null spellings to the empty string
func normalizeEmpLength(s string) string {
	switch strings.ToLower(s) {
	case "n/a", "na", "null":
		return ""
	}
	return s
}

// parseIssueDate tries the known issue_d layouts, nil when none match
func parseIssueDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// stripBOM removes a UTF-8 byte order mark from the first header cell
func stripBOM(header []string) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
}

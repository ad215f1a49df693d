package loandata

import (
	"context"
	"log/slog"

	"loanlens/pkg/contracts/domain"
)

// Cleaner applies the eligibility invariant ahead of aggregation, keeping
// per-condition removal counts. The aggregation engine re-applies the same
// filter; this pass exists for the cleaning summary and cleaned export.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean filters records to the eligible set. Each removed record is counted
// once, under the first condition it failed: grade, status, amount, rate.
func (c *Cleaner) Clean(ctx context.Context, records []domain.LoanRecord) ([]domain.LoanRecord, *CleaningSummary) {
	summary := &CleaningSummary{RowsBefore: len(records)}

	cleaned := make([]domain.LoanRecord, 0, len(records))
	for _, rec := range records {
		switch {
		case !domain.LoanGrade(rec.Grade).IsValid():
			summary.MissingGrade++
		case !domain.LoanStatus(rec.LoanStatus).IsEligible():
			summary.IneligibleStatus++
		case rec.LoanAmount <= 0:
			summary.NonPositiveAmount++
		case rec.IntRate <= 0:
			summary.NonPositiveRate++
		default:
			cleaned = append(cleaned, rec)
			if rec.IsDefaulted() {
				summary.DefaultCount++
			}
		}
	}

	summary.RowsAfter = len(cleaned)
	summary.Removed = summary.RowsBefore - summary.RowsAfter
	if summary.RowsBefore > 0 {
		pct := float64(summary.Removed) / float64(summary.RowsBefore) * 100
		summary.RemovedPct = &pct
	}
	if summary.RowsAfter > 0 {
		pct := float64(summary.DefaultCount) / float64(summary.RowsAfter) * 100
		summary.DefaultPct = &pct
	}

	c.logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("rows_before", summary.RowsBefore),
		slog.Int("rows_after", summary.RowsAfter),
		slog.Int("removed", summary.Removed),
		slog.Int("defaults", summary.DefaultCount))

	return cleaned, summary
}

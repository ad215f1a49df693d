package loandata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanlens/pkg/contracts/domain"
)

func rec(grade, subGrade, status string, amount, rate float64) domain.LoanRecord {
	return domain.LoanRecord{
		Grade:      grade,
		SubGrade:   subGrade,
		LoanStatus: status,
		LoanAmount: amount,
		IntRate:    rate,
	}
}

func TestCleaner_Clean(t *testing.T) {
	records := []domain.LoanRecord{
		rec("A", "A1", "Fully Paid", 10000, 7.5),
		rec("A", "A2", "Charged Off", 12000, 9.0),
		rec("G", "G1", "Default", 25000, 28.0),
		rec("", "B1", "Fully Paid", 5000, 10.0),       // missing grade
		rec("H", "H1", "Fully Paid", 5000, 10.0),      // unknown grade
		rec("B", "B1", "Late (31-120 days)", 5000, 9), // ineligible status
		rec("B", "B2", "Fully Paid", 0, 9.0),          // non-positive amount
		rec("C", "C1", "Current", 8000, 0),            // non-positive rate
	}

	cleaned, summary := NewCleaner(nil).Clean(context.Background(), records)

	require.Len(t, cleaned, 3)
	assert.Equal(t, 8, summary.RowsBefore)
	assert.Equal(t, 3, summary.RowsAfter)
	assert.Equal(t, 5, summary.Removed)
	assert.Equal(t, 2, summary.MissingGrade)
	assert.Equal(t, 1, summary.IneligibleStatus)
	assert.Equal(t, 1, summary.NonPositiveAmount)
	assert.Equal(t, 1, summary.NonPositiveRate)

	require.NotNil(t, summary.RemovedPct)
	assert.InDelta(t, 62.5, *summary.RemovedPct, 1e-9)

	assert.Equal(t, 2, summary.DefaultCount)
	require.NotNil(t, summary.DefaultPct)
	assert.InDelta(t, 200.0/3.0, *summary.DefaultPct, 1e-9)
}

func TestCleaner_Clean_FirstFailingConditionCounts(t *testing.T) {
	// A record failing several conditions is counted once, under the first
	records := []domain.LoanRecord{
		rec("", "X1", "Late (31-120 days)", 0, 0),
	}

	cleaned, summary := NewCleaner(nil).Clean(context.Background(), records)

	assert.Empty(t, cleaned)
	assert.Equal(t, 1, summary.MissingGrade)
	assert.Equal(t, 0, summary.IneligibleStatus)
	assert.Equal(t, 0, summary.NonPositiveAmount)
	assert.Equal(t, 0, summary.NonPositiveRate)
}

func TestCleaner_Clean_Empty(t *testing.T) {
	cleaned, summary := NewCleaner(nil).Clean(context.Background(), nil)

	assert.Empty(t, cleaned)
	assert.Equal(t, 0, summary.RowsBefore)
	assert.Nil(t, summary.RemovedPct)
	assert.Nil(t, summary.DefaultPct)
}

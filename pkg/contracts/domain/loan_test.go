package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoanStatusEligibility(t *testing.T) {
	tests := []struct {
		status    LoanStatus
		eligible  bool
		defaulted bool
	}{
		{StatusChargedOff, true, true},
		{StatusDefault, true, true},
		{StatusFullyPaid, true, false},
		{StatusCurrent, true, false},
		{StatusLate, false, false},
		{StatusInGracePeriod, false, false},
		{LoanStatus("Late (31-120 days)"), false, false},
		{LoanStatus(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.eligible, tt.status.IsEligible())
			assert.Equal(t, tt.defaulted, tt.status.IsDefaulted())
		})
	}
}

func TestLoanRecordIsEligible(t *testing.T) {
	base := LoanRecord{Grade: "B", SubGrade: "B1", LoanStatus: "Current", LoanAmount: 5000, IntRate: 9.5}

	tests := []struct {
		name   string
		mutate func(*LoanRecord)
		want   bool
	}{
		{name: "valid record", mutate: func(r *LoanRecord) {}, want: true},
		{name: "empty grade", mutate: func(r *LoanRecord) { r.Grade = "" }, want: false},
		{name: "unknown grade", mutate: func(r *LoanRecord) { r.Grade = "H" }, want: false},
		{name: "transitional status", mutate: func(r *LoanRecord) { r.LoanStatus = "In Grace Period" }, want: false},
		{name: "zero amount", mutate: func(r *LoanRecord) { r.LoanAmount = 0 }, want: false},
		{name: "negative amount", mutate: func(r *LoanRecord) { r.LoanAmount = -100 }, want: false},
		{name: "zero rate", mutate: func(r *LoanRecord) { r.IntRate = 0 }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base
			tt.mutate(&rec)
			assert.Equal(t, tt.want, rec.IsEligible())
		})
	}
}

func TestIssueMonth(t *testing.T) {
	issued := time.Date(2019, time.July, 23, 14, 30, 0, 0, time.UTC)
	rec := LoanRecord{IssueDate: &issued}
	assert.Equal(t, time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC), rec.IssueMonth())

	assert.True(t, LoanRecord{}.IssueMonth().IsZero())
}

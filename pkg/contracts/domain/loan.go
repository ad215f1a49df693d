package domain

import (
	"time"
)

// LoanGrade represents the coarse risk grade assigned to a loan at origination
type LoanGrade string

const (
	GradeA LoanGrade = "A"
	GradeB LoanGrade = "B"
	GradeC LoanGrade = "C"
	GradeD LoanGrade = "D"
	GradeE LoanGrade = "E"
	GradeF LoanGrade = "F"
	GradeG LoanGrade = "G"
)

// CanonicalGrades lists every grade in ascending risk order.
// Rollup output carries one row per canonical grade even when empty.
var CanonicalGrades = []LoanGrade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF, GradeG}

// IsValid checks whether the grade is one of the canonical A-G values
func (g LoanGrade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE, GradeF, GradeG:
		return true
	}
	return false
}

// LoanStatus represents the lifecycle status of a loan
type LoanStatus string

const (
	StatusChargedOff    LoanStatus = "Charged Off"
	StatusFullyPaid     LoanStatus = "Fully Paid"
	StatusCurrent       LoanStatus = "Current"
	StatusDefault       LoanStatus = "Default"
	StatusLate          LoanStatus = "Late"
	StatusInGracePeriod LoanStatus = "In Grace Period"
)

// IsEligible reports whether a loan with this status participates in
// grade metrics. Only resolved or currently-performing loans count;
// transitional statuses like "Late" are excluded entirely.
func (s LoanStatus) IsEligible() bool {
	switch s {
	case StatusChargedOff, StatusFullyPaid, StatusCurrent, StatusDefault:
		return true
	}
	return false
}

// IsDefaulted reports whether the status counts toward the default-rate
// numerator. "Current" loans sit in the denominator only.
func (s LoanStatus) IsDefaulted() bool {
	return s == StatusChargedOff || s == StatusDefault
}

// LoanRecord represents a single historical consumer loan
type LoanRecord struct {
	Grade      string     `json:"grade" validate:"omitempty,oneof=A B C D E F G"`
	SubGrade   string     `json:"sub_grade" validate:"omitempty,len=2"`
	LoanStatus string     `json:"loan_status"`
	LoanAmount float64    `json:"loan_amnt"`
	IntRate    float64    `json:"int_rate"`
	AnnualInc  *float64   `json:"annual_inc,omitempty"`
	DTI        *float64   `json:"dti,omitempty"`
	EmpLength  string     `json:"emp_length,omitempty"`
	IssueDate  *time.Time `json:"issue_d,omitempty"`
}

// IsEligible applies the record-level eligibility invariant: canonical
// grade, status in the eligible set, positive amount, positive rate.
// Records failing any condition are excluded from all metrics.
func (r LoanRecord) IsEligible() bool {
	return LoanGrade(r.Grade).IsValid() &&
		LoanStatus(r.LoanStatus).IsEligible() &&
		r.LoanAmount > 0 &&
		r.IntRate > 0
}

// IsDefaulted reports whether the record ended in charge-off or formal default
func (r LoanRecord) IsDefaulted() bool {
	return LoanStatus(r.LoanStatus).IsDefaulted()
}

// IssueMonth returns the issue date truncated to the first of the month,
// the granularity used for months_represented. Zero time when unset.
func (r LoanRecord) IssueMonth() time.Time {
	if r.IssueDate == nil {
		return time.Time{}
	}
	d := *r.IssueDate
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

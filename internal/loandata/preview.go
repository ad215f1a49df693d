package loandata

import (
	"sort"

	"loanlens/pkg/contracts/domain"
)

// PreviewStatuses summarizes the loan-status distribution of a raw dataset,
// marking which statuses participate in metrics. Sorted by count descending,
// then status for determinism.
func PreviewStatuses(records []domain.LoanRecord) []StatusCount {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.LoanStatus]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{
			Status:   status,
			Count:    count,
			Eligible: domain.LoanStatus(status).IsEligible(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// PreviewGrades summarizes the grade distribution, sorted by grade ascending
func PreviewGrades(records []domain.LoanRecord) []GradeCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Grade == "" {
			continue
		}
		counts[rec.Grade]++
	}

	out := make([]GradeCount, 0, len(counts))
	for grade, count := range counts {
		out = append(out, GradeCount{Grade: grade, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Grade < out[j].Grade
	})
	return out
}

// recordColumns is the per-record field count reported by Inspect
const recordColumns = 9

// approxRecordBytes is a rough in-memory footprint per record used for the
// dataset size estimate
const approxRecordBytes = 120

// Inspect reports basic shape and null-count facts about a dataset
func Inspect(records []domain.LoanRecord) DatasetInfo {
	info := DatasetInfo{
		Rows:           len(records),
		Columns:        recordColumns,
		NullCounts:     make(map[string]int),
		EstimatedBytes: int64(len(records)) * approxRecordBytes,
	}

	for _, rec := range records {
		if rec.Grade == "" {
			info.NullCounts[ColGrade]++
		}
		if rec.SubGrade == "" {
			info.NullCounts[ColSubGrade]++
		}
		if rec.LoanStatus == "" {
			info.NullCounts[ColLoanStatus]++
		}
		if rec.AnnualInc == nil {
			info.NullCounts[ColAnnualInc]++
		}
		if rec.DTI == nil {
			info.NullCounts[ColDTI]++
		}
		if rec.EmpLength == "" {
			info.NullCounts[ColEmpLength]++
		}
		if rec.IssueDate == nil {
			info.NullCounts[ColIssueDate]++
		}
	}

	return info
}

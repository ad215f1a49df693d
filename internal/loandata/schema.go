package loandata

import (
	"strings"

	apperrors "loanlens/internal/errors"
)

// Canonical column names of the input schema
const (
	ColGrade      = "grade"
	ColSubGrade   = "sub_grade"
	ColLoanStatus = "loan_status"
	ColLoanAmount = "loan_amnt"
	ColIntRate    = "int_rate"
	ColAnnualInc  = "annual_inc"
	ColDTI        = "dti"
	ColEmpLength  = "emp_length"
	ColIssueDate  = "issue_d"
)

// requiredColumns must all be present in the header; their absence fails
// the whole load.
var requiredColumns = []string{
	ColGrade,
	ColSubGrade,
	ColLoanStatus,
	ColLoanAmount,
	ColIntRate,
}

// optionalColumns are mapped when present and left nil/empty otherwise
var optionalColumns = []string{
	ColAnnualInc,
	ColDTI,
	ColEmpLength,
	ColIssueDate,
}

// columnAliases maps header spellings seen in the wild to canonical names.
// Matching is case-insensitive after trimming.
var columnAliases = map[string]string{
	"grade":          ColGrade,
	"sub_grade":      ColSubGrade,
	"subgrade":       ColSubGrade,
	"loan_status":    ColLoanStatus,
	"status":         ColLoanStatus,
	"loan_amnt":      ColLoanAmount,
	"loan_amount":    ColLoanAmount,
	"int_rate":       ColIntRate,
	"interest_rate":  ColIntRate,
	"annual_inc":     ColAnnualInc,
	"annual_income":  ColAnnualInc,
	"dti":            ColDTI,
	"debt_to_income": ColDTI,
	"emp_length":     ColEmpLength,
	"issue_d":        ColIssueDate,
	"issue_date":     ColIssueDate,
}

// mapColumns resolves a header row to canonical column -> index.
// Returns a VALIDATION error naming the first missing required column.
func mapColumns(header []string) (map[string]int, error) {
	mapping := make(map[string]int, len(requiredColumns)+len(optionalColumns))

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		canonical, ok := columnAliases[key]
		if !ok {
			continue
		}
		// First occurrence wins on duplicate headers
		if _, seen := mapping[canonical]; !seen {
			mapping[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := mapping[col]; !ok {
			return nil, apperrors.NewColumnMissingError(col)
		}
	}

	return mapping, nil
}

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on
var (
	// ErrNoRecords indicates a dataset or group contained no usable records
	ErrNoRecords = errors.New("no records")

	// ErrColumnMissing indicates a required column was absent from the input schema
	ErrColumnMissing = errors.New("required column missing")
)

// NewColumnMissingError wraps ErrColumnMissing with the offending column name
// so the failure identifies the field per the all-or-nothing schema contract.
func NewColumnMissingError(column string) *AppError {
	return NewAppError(ErrTypeValidation,
		fmt.Sprintf("column %q is required", column),
		fmt.Errorf("%w: %s", ErrColumnMissing, column))
}

package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidRange       = errors.New("invalid range")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPartialWrite       = errors.New("partial write")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrMealNotFound       = errors.New("meal not found")
	ErrEmptyAnalysis      = errors.New("analysis has no foods")
	ErrModelResponseParse = errors.New("model response is not valid analysis json")
	ErrAnalysisFailed     = errors.New("meal analysis failed")
)

var (
	ErrDayDateInvalid  = fmt.Errorf("%w: date", ErrInvalidDate)
	ErrFromDateInvalid = fmt.Errorf("%w: from_date", ErrInvalidDate)
	ErrToDateInvalid   = fmt.Errorf("%w: to_date", ErrInvalidDate)
)

func storageUnavailable(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, operation, err)
}

// PartialWriteError reports a meal whose items failed to persist after the
// parent row was written. Compensated tells whether the parent was removed.
type PartialWriteError struct {
	MealID          string
	Cause           error
	CompensationErr error
}

func (err *PartialWriteError) Compensated() bool {
	return err.CompensationErr == nil
}

func (err *PartialWriteError) Error() string {
	if err.CompensationErr != nil {
		return fmt.Sprintf("partial write of meal %s: %v; compensating delete failed: %v", err.MealID, err.Cause, err.CompensationErr)
	}
	return fmt.Sprintf("partial write of meal %s rolled back: %v", err.MealID, err.Cause)
}

func (err *PartialWriteError) Unwrap() []error {
	wrapped := []error{ErrPartialWrite, err.Cause}
	if err.CompensationErr != nil {
		wrapped = append(wrapped, err.CompensationErr)
	}
	return wrapped
}

var ErrInvalidExportFormat = errors.New("invalid export format")

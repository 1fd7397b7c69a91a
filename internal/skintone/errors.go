package skintone

import (
	"errors"
	"fmt"
)

var (
	// ErrImageTooLarge is returned when the encoded photo exceeds the size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrEmptyImage is returned for zero-length input or a zero-area picture.
	ErrEmptyImage = errors.New("image is empty")

	// ErrDecodeTimeout is returned when decoding does not finish within its budget.
	ErrDecodeTimeout = errors.New("image decode timed out")
)

// PreprocessingError means a photo could not be turned into an analysis grid.
// Callers substitute model.DefaultClassification rather than failing.
type PreprocessingError struct {
	Err error
	Op  string
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("preprocessing failed at %s: %v", e.Op, e.Err)
}

func (e *PreprocessingError) Unwrap() error {
	return e.Err
}

func preprocessingError(op string, err error) error {
	return &PreprocessingError{Op: op, Err: err}
}

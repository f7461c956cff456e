package risk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedCategory matches every *UnrecognizedCategoryError.
	ErrUnrecognizedCategory = errors.New("unrecognized category")

	// ErrUnexpectedPredictionCount means the classifier did not return
	// exactly one class id for a single-row batch.
	ErrUnexpectedPredictionCount = errors.New("unexpected prediction count")
)

// UnrecognizedCategoryError reports a selection outside its closed set.
type UnrecognizedCategoryError struct {
	Field string
	Value string
}

func (e *UnrecognizedCategoryError) Error() string {
	return fmt.Sprintf("unrecognized %s selection %q", e.Field, e.Value)
}

func (e *UnrecognizedCategoryError) Is(target error) bool {
	return target == ErrUnrecognizedCategory
}

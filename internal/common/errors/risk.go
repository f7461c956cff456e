package errors

import (
	stderrors "errors"

	"credit-risk-dashboard/internal/risk"
)

// FromRiskError classifies an error returned by risk.Normalize or
// risk.Dispatcher. Anything unrecognized came from the classifier and is
// reported as an inference failure.
func FromRiskError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var catErr *risk.UnrecognizedCategoryError
	if stderrors.As(err, &catErr) {
		return NewUnrecognizedCategoryError(catErr.Field, catErr.Value, err)
	}

	if stderrors.Is(err, risk.ErrUnexpectedPredictionCount) {
		return NewUnexpectedPredictionCountError(err)
	}

	return NewInferenceFailedError(err)
}

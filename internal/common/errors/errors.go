// Package errors provides the standardized error model used by the form
// server and the job workers, and its mapping onto BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Startup failures
const (
	ErrCodeModelNotFound   ErrorCode = "MODEL_NOT_FOUND"
	ErrCodeModelLoadFailed ErrorCode = "MODEL_LOAD_FAILED"
)

// Normalization failures
const (
	ErrCodeUnrecognizedCategory      ErrorCode = "UNRECOGNIZED_CATEGORY"
	ErrCodeApplicantValidationFailed ErrorCode = "APPLICANT_VALIDATION_FAILED"
	ErrCodeFeatureValidationFailed   ErrorCode = "FEATURE_VALIDATION_FAILED"
	ErrCodeInputParseFailed          ErrorCode = "PARSE_ERROR"
)

// Inference failures
const (
	ErrCodeInferenceFailed           ErrorCode = "INFERENCE_FAILED"
	ErrCodeUnexpectedPredictionCount ErrorCode = "UNEXPECTED_PREDICTION_COUNT"
)

const (
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	ErrCodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the single error shape surfaced to operators and to the
// workflow engine.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError is what gets thrown into a running process instance.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables flattens the error into process variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewModelNotFoundError(path string) *StandardError {
	return newError(ErrCodeModelNotFound, "Classifier artifact not found", fmt.Sprintf("path: %s", path), nil)
}

func NewModelLoadFailedError(path string, err error) *StandardError {
	return newError(ErrCodeModelLoadFailed, "Classifier artifact could not be loaded",
		fmt.Sprintf("path: %s, error: %v", path, err), err)
}

// NewUnrecognizedCategoryError reports a selection outside its closed set.
func NewUnrecognizedCategoryError(field, value string, cause error) *StandardError {
	e := newError(ErrCodeUnrecognizedCategory, "Unrecognized category selection",
		fmt.Sprintf("field: %s, value: %q", field, value), cause)
	e.Metadata = map[string]interface{}{"field": field, "value": value}
	return e
}

func NewApplicantValidationFailedError(details []string) *StandardError {
	return newError(ErrCodeApplicantValidationFailed, "Applicant input validation failed",
		strings.Join(details, "; "), nil)
}

func NewFeatureValidationFailedError(details []string) *StandardError {
	return newError(ErrCodeFeatureValidationFailed, "Feature record validation failed",
		strings.Join(details, "; "), nil)
}

func NewInputParseError(err error) *StandardError {
	return newError(ErrCodeInputParseFailed, "Job variables could not be parsed", err.Error(), err)
}

func NewUnexpectedPredictionCountError(err error) *StandardError {
	return newError(ErrCodeUnexpectedPredictionCount, "Classifier returned an unexpected number of predictions",
		err.Error(), err)
}

// NewInferenceFailedError keeps err reachable through errors.Is/As.
func NewInferenceFailedError(err error) *StandardError {
	return newError(ErrCodeInferenceFailed, "Classifier inference failed", err.Error(), err)
}

func NewRateLimitedError(client string) *StandardError {
	return newError(ErrCodeRateLimited, "Too many submissions, try again shortly",
		fmt.Sprintf("client: %s", client), nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), err)
}

// AsStandardError returns err as a *StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// BPMNErrorMapping maps internal codes to the error codes modelled in the
// credit assessment process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeModelNotFound:             "MODEL_UNAVAILABLE",
	ErrCodeModelLoadFailed:           "MODEL_UNAVAILABLE",
	ErrCodeUnrecognizedCategory:      "UNRECOGNIZED_CATEGORY",
	ErrCodeApplicantValidationFailed: "APPLICANT_VALIDATION_FAILED",
	ErrCodeFeatureValidationFailed:   "FEATURE_VALIDATION_FAILED",
	ErrCodeInputParseFailed:          "PARSE_ERROR",
	ErrCodeUnexpectedPredictionCount: "INFERENCE_FAILED",
	ErrCodeInferenceFailed:           "INFERENCE_FAILED",
}

// GetRetryCount is zero for every code: each failure is terminal for the
// request that produced it.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// IsTechnical reports whether the code describes a model or runtime failure
// rather than bad operator input. Technical failures become incidents,
// business failures are thrown into the process.
func IsTechnical(code ErrorCode) bool {
	switch code {
	case ErrCodeModelNotFound,
		ErrCodeModelLoadFailed,
		ErrCodeInferenceFailed,
		ErrCodeUnexpectedPredictionCount,
		ErrCodeInternal:
		return true
	default:
		return false
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      false,
		Retries:        GetRetryCount(stdErr.Code),
		ErrorVariables: vars,
	}
}

// GetErrorCategory groups codes for logging and dashboards.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MODEL"):
		return "STARTUP"
	case strings.Contains(codeStr, "CATEGORY") || strings.Contains(codeStr, "VALIDATION") || codeStr == string(ErrCodeInputParseFailed):
		return "NORMALIZATION"
	case strings.Contains(codeStr, "INFERENCE") || strings.Contains(codeStr, "PREDICTION"):
		return "INFERENCE"
	case codeStr == string(ErrCodeRateLimited):
		return "THROTTLING"
	default:
		return "OTHER"
	}
}

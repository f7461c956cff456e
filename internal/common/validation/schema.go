package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Messages flattens the errors into "field: message" strings.
func (r *ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return out
}

// Validator holds a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a schema given as a decoded JSON document.
func NewValidator(schema map[string]interface{}) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// NewValidatorFromJSON compiles a schema given as raw JSON.
func NewValidatorFromJSON(schemaJSON string) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks a Go value (maps, structs with json tags, slices).
func (v *Validator) Validate(data interface{}) *ValidationResult {
	return toResult(v.schema.Validate(gojsonschema.NewGoLoader(data)))
}

// ValidateBytes checks a raw JSON document.
func (v *Validator) ValidateBytes(data []byte) *ValidationResult {
	return toResult(v.schema.Validate(gojsonschema.NewBytesLoader(data)))
}

// ValidateInput validates input against a schema in one call.
func ValidateInput(input map[string]interface{}, schema map[string]interface{}) *ValidationResult {
	v, err := NewValidator(schema)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(schema)", Message: err.Error(), Code: "INVALID_SCHEMA"}},
		}
	}
	return v.Validate(input)
}

func toResult(result *gojsonschema.Result, err error) *ValidationResult {
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_DOCUMENT"}},
		}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

// fieldName reports the missing property for "required" errors, which
// gojsonschema attributes to the parent object.
func fieldName(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if desc.Field() == "(root)" {
				return prop
			}
			return desc.Field() + "." + prop
		}
	}
	return desc.Field()
}

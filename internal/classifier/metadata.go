package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"credit-risk-dashboard/internal/common/validation"
	"credit-risk-dashboard/internal/risk"
)

// Metadata is the JSON sidecar exported next to the ONNX model.
type Metadata struct {
	ModelVersion string   `json:"model_version"`
	InputName    string   `json:"input_name"`
	OutputName   string   `json:"output_name"`
	Columns      []string `json:"columns"`

	// Categories holds, per categorical column, the vocabulary used to
	// ordinal-encode it during training. A token's index is its value.
	Categories map[string][]string `json:"categories"`
	Classes    []int               `json:"classes"`
}

const metadataSchema = `{
  "type": "object",
  "required": ["input_name", "output_name", "columns", "categories"],
  "properties": {
    "model_version": {"type": "string"},
    "input_name":    {"type": "string", "minLength": 1},
    "output_name":   {"type": "string", "minLength": 1},
    "columns": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1
    },
    "categories": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"},
        "minItems": 1
      }
    },
    "classes": {
      "type": "array",
      "items": {"type": "integer"}
    }
  }
}`

var metadataValidator = mustValidator(metadataSchema)

func mustValidator(schema string) *validation.Validator {
	v, err := validation.NewValidatorFromJSON(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// LoadMetadata reads and checks the sidecar at path.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return ParseMetadata(data)
}

// ParseMetadata decodes the sidecar and verifies it against the feature
// record layout.
func ParseMetadata(data []byte) (*Metadata, error) {
	if result := metadataValidator.ValidateBytes(data); !result.Valid {
		return nil, fmt.Errorf("metadata schema: %s", strings.Join(result.Messages(), "; "))
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Validate checks that the model was trained on exactly the columns a
// FeatureRecord carries and that every token the normalizer can emit is in
// the model's vocabulary.
func (m *Metadata) Validate() error {
	want := risk.Columns()
	if len(m.Columns) != len(want) {
		return fmt.Errorf("column count mismatch: model has %d, feature record has %d", len(m.Columns), len(want))
	}
	for i, col := range want {
		if m.Columns[i] != col {
			return fmt.Errorf("column %d mismatch: model has %q, feature record has %q", i, m.Columns[i], col)
		}
	}

	required := map[string][]string{
		risk.ColIncomeType:    risk.IncomeTypeCodes(),
		risk.ColEducationType: risk.EducationCodes(),
		risk.ColGender:        risk.GenderCodes(),
	}
	for col, tokens := range required {
		vocab, ok := m.Categories[col]
		if !ok {
			return fmt.Errorf("no vocabulary for categorical column %s", col)
		}
		known := make(map[string]struct{}, len(vocab))
		for _, v := range vocab {
			known[v] = struct{}{}
		}
		for _, tok := range tokens {
			if _, ok := known[tok]; !ok {
				return fmt.Errorf("vocabulary for %s is missing %q", col, tok)
			}
		}
	}

	for col := range m.Categories {
		if _, ok := required[col]; !ok {
			return fmt.Errorf("unexpected categorical column %s", col)
		}
	}

	return nil
}

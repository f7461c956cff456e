package classifier

import (
	"errors"
	"fmt"

	"credit-risk-dashboard/internal/risk"
)

// ErrUnknownToken is returned when a categorical value is not in the model's
// vocabulary.
var ErrUnknownToken = errors.New("token not in model vocabulary")

// Encoder turns feature records into the flat float32 matrix the model
// expects, row-major with risk.ColumnCount columns.
type Encoder struct {
	vocab map[int]map[string]float32
}

func NewEncoder(meta *Metadata) *Encoder {
	index := make(map[string]int, risk.ColumnCount)
	for i, col := range meta.Columns {
		index[col] = i
	}

	vocab := make(map[int]map[string]float32, len(meta.Categories))
	for col, tokens := range meta.Categories {
		codes := make(map[string]float32, len(tokens))
		for i, tok := range tokens {
			codes[tok] = float32(i)
		}
		vocab[index[col]] = codes
	}
	return &Encoder{vocab: vocab}
}

// Encode returns len(rows)*risk.ColumnCount values.
func (e *Encoder) Encode(rows []risk.FeatureRecord) ([]float32, error) {
	out := make([]float32, 0, len(rows)*risk.ColumnCount)
	for r, rec := range rows {
		for c, v := range rec.Row() {
			f, err := e.value(c, v)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", r, risk.Columns()[c], err)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (e *Encoder) value(col int, v interface{}) (float32, error) {
	switch val := v.(type) {
	case string:
		codes, ok := e.vocab[col]
		if !ok {
			return 0, fmt.Errorf("no vocabulary for string value %q", val)
		}
		code, ok := codes[val]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownToken, val)
		}
		return code, nil
	case int:
		return float32(val), nil
	case float64:
		return float32(val), nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

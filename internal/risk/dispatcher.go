package risk

import (
	"context"
	"fmt"
)

// Classifier is the loaded model. Predict returns one class id per row.
type Classifier interface {
	Predict(ctx context.Context, rows []FeatureRecord) ([]int, error)
}

// Dispatcher runs a single feature record through the classifier.
type Dispatcher struct {
	classifier Classifier
}

func NewDispatcher(classifier Classifier) *Dispatcher {
	return &Dispatcher{classifier: classifier}
}

// Dispatch calls Predict exactly once with a one-row batch. Errors from the
// classifier are returned as is.
func (d *Dispatcher) Dispatch(ctx context.Context, record FeatureRecord) (PredictionResult, error) {
	ids, err := d.classifier.Predict(ctx, []FeatureRecord{record})
	if err != nil {
		return PredictionResult{}, err
	}
	if len(ids) != 1 {
		return PredictionResult{}, fmt.Errorf("%w: want 1, got %d", ErrUnexpectedPredictionCount, len(ids))
	}

	tier, label := LabelFor(ids[0])
	return PredictionResult{ClassID: ids[0], Tier: tier, Label: label}, nil
}

// Assess normalizes in and dispatches the resulting record.
func (d *Dispatcher) Assess(ctx context.Context, in ApplicantInput) (FeatureRecord, PredictionResult, error) {
	record, err := Normalize(in)
	if err != nil {
		return FeatureRecord{}, PredictionResult{}, err
	}
	result, err := d.Dispatch(ctx, record)
	if err != nil {
		return record, PredictionResult{}, err
	}
	return record, result, nil
}

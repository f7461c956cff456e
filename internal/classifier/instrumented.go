package classifier

import (
	"context"
	"time"

	"credit-risk-dashboard/internal/common/metrics"
	"credit-risk-dashboard/internal/common/observability"
	"credit-risk-dashboard/internal/risk"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type instrumented struct {
	next risk.Classifier
	obs  *observability.Observability
}

// Instrument wraps c so every Predict call is timed and traced. Results and
// errors pass through untouched.
func Instrument(c risk.Classifier, obs *observability.Observability) risk.Classifier {
	return &instrumented{next: c, obs: obs}
}

func (i *instrumented) Predict(ctx context.Context, rows []risk.FeatureRecord) ([]int, error) {
	ctx, span := i.obs.StartSpan(ctx, "classifier.predict", attribute.Int("rows", len(rows)))
	defer span.End()

	start := time.Now()
	ids, err := i.next.Predict(ctx, rows)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return ids, err
}

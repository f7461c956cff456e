package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoop_IsSafeToUse(t *testing.T) {
	o := NewNoop()

	ctx, span := o.StartSpan(context.Background(), "risk.dispatch", attribute.String("requestId", "req-1"))
	assert.NotNil(t, ctx)
	span.End()

	assert.NotPanics(t, func() {
		o.RecordAssessment(ctx, "form", "success", 3*time.Millisecond)
		o.Shutdown(context.Background())
	})
}

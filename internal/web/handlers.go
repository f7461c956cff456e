package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/metrics"
	"credit-risk-dashboard/internal/risk"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func (s *Server) showForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", newFormView(applicantForm{}, c.GetString(requestIDKey)))
}

func (s *Server) predict(c *gin.Context) {
	requestID := c.GetString(requestIDKey)

	var form applicantForm
	if err := c.ShouldBind(&form); err != nil {
		view := newFormView(form, requestID)
		view.Errors = bindingMessages(err)
		s.render(c, http.StatusBadRequest, view)
		return
	}

	in := form.toInput()
	ctx, span := s.obs.StartSpan(c.Request.Context(), "risk.assess",
		attribute.String("requestId", requestID))
	defer span.End()

	start := time.Now()
	_, result, err := s.dispatcher.Assess(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.renderFailure(ctx, c, form, requestID, err, time.Since(start))
		return
	}

	metrics.RiskPredictions.WithLabelValues(result.Tier.String()).Inc()
	s.obs.RecordAssessment(ctx, "form", "success", time.Since(start))
	s.logger.Info("assessment completed", map[string]interface{}{
		"requestId": requestID,
		"classId":   result.ClassID,
		"tier":      result.Tier.String(),
	})

	view := newFormView(form, requestID)
	view.Narrative = risk.Narrative(in)
	view.Label = result.Label
	view.Tier = result.Tier.String()
	s.render(c, http.StatusOK, view)
}

func (s *Server) renderFailure(ctx context.Context, c *gin.Context, form applicantForm, requestID string, err error, elapsed time.Duration) {
	stdErr := apperrors.FromRiskError(err)
	view := newFormView(form, requestID)

	fields := map[string]interface{}{
		"requestId": requestID,
		"errorCode": string(stdErr.Code),
		"error":     err,
	}

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case apperrors.ErrCodeUnrecognizedCategory:
		status = http.StatusBadRequest
		field, _ := stdErr.Metadata["field"].(string)
		metrics.NormalizationFailures.WithLabelValues(field).Inc()
		view.Errors = []string{err.Error()}
		s.logger.Warn("applicant rejected", fields)
	default:
		view.Errors = []string{fmt.Sprintf("Prediction failed: %v", err)}
		s.logger.Error("assessment failed", fields)
	}

	s.obs.RecordAssessment(ctx, "form", string(stdErr.Code), elapsed)
	_ = c.Error(err)
	s.render(c, status, view)
}

func (s *Server) render(c *gin.Context, status int, view formView) {
	metrics.FormRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.HTML(status, "form.html", view)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// ready reports 200 once every dependency answers. The model is loaded
// before the server is constructed, so it is always reported ready.
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{"model": "ok"}
	status := http.StatusOK
	for name, check := range s.readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}

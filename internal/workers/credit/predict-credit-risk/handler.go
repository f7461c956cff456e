// internal/workers/credit/predict-credit-risk/handler.go
package predictcreditrisk

import (
	"context"
	"encoding/json"
	"time"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/common/metrics"
	"credit-risk-dashboard/internal/common/observability"
	"credit-risk-dashboard/internal/common/validation"
	"credit-risk-dashboard/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "predict-credit-risk"
)

type Handler struct {
	config     *Config
	dispatcher *risk.Dispatcher
	obs        *observability.Observability
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler shares dispatcher, and with it the loaded classifier, with the
// form server.
func NewHandler(config *Config, dispatcher *risk.Dispatcher, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config:     config,
		dispatcher: dispatcher,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	h.errHandler = apperrors.NewErrorHandler(h.logger)

	if len(config.InputSchema) > 0 {
		v, err := validation.NewValidator(config.InputSchema)
		if err != nil {
			return nil, err
		}
		h.validator = v
	}
	return h, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputParseError(err)
	}

	if h.validator != nil {
		if result := h.validator.ValidateBytes([]byte(variables)); !result.Valid {
			return nil, apperrors.NewFeatureValidationFailedError(result.Messages())
		}
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, "risk.dispatch",
		attribute.String("requestId", input.RequestID),
		attribute.String("source", "worker"))
	defer span.End()

	start := time.Now()
	result, err := h.dispatcher.Dispatch(ctx, input.Features)
	if err != nil {
		stdErr := apperrors.FromRiskError(err)
		span.RecordError(err)
		h.obs.RecordAssessment(ctx, "worker", string(stdErr.Code), time.Since(start))
		return nil, stdErr
	}

	metrics.RiskPredictions.WithLabelValues(result.Tier.String()).Inc()
	h.obs.RecordAssessment(ctx, "worker", "success", time.Since(start))
	h.logger.Info("risk predicted", map[string]interface{}{
		"requestId": input.RequestID,
		"classId":   result.ClassID,
		"tier":      result.Tier.String(),
	})

	return &Output{
		RiskClass: result.ClassID,
		RiskTier:  result.Tier.String(),
		RiskLabel: result.Label,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, apperrors.NewInternalError(err), start)
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"riskLabel": output.RiskLabel,
	})
}

// failJob sends inference failures to an incident with zero retries and
// throws input failures into the process.
func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

// internal/workers/credit/normalize-applicant/handler.go
package normalizeapplicant

import (
	"context"
	"encoding/json"
	"time"

	apperrors "credit-risk-dashboard/internal/common/errors"
	"credit-risk-dashboard/internal/common/logger"
	"credit-risk-dashboard/internal/common/metrics"
	"credit-risk-dashboard/internal/common/validation"
	"credit-risk-dashboard/internal/risk"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "normalize-applicant"
)

type Handler struct {
	config     *Config
	normalizer risk.Normalizer
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

// parseInput decodes the job variables and checks them against the
// registered input schema.
func (h *Handler) parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputParseError(err)
	}

	if h.validator != nil {
		if result := h.validator.ValidateBytes([]byte(variables)); !result.Valid {
			return nil, apperrors.NewApplicantValidationFailedError(result.Messages())
		}
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	features, err := h.normalizer.Normalize(input.Applicant)
	if err != nil {
		stdErr := apperrors.FromRiskError(err)
		if field, ok := stdErr.Metadata["field"].(string); ok {
			metrics.NormalizationFailures.WithLabelValues(field).Inc()
		}
		return nil, stdErr
	}

	h.logger.Debug("applicant normalized", map[string]interface{}{
		"requestId":  input.RequestID,
		"incomeType": features.IncomeType,
		"education":  features.EducationType,
	})

	return &Output{
		Features:  features,
		Narrative: risk.Narrative(input.Applicant),
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
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}

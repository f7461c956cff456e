// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler reports job failures back to the broker.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError throws business failures into the process and fails the job
// with zero retries for technical ones, which raises an incident.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := AsStandardError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if IsTechnical(stdErr.Code) {
		h.failJob(ctx, client, job, bpmnErr)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(bpmnErr.Retries)).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(varsJSON); err == nil {
			h.send(ctx, job, "fail job", func() error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, "fail job", func() error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(varsJSON); err == nil {
			h.send(ctx, job, "throw error", func() error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, "throw error", func() error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) send(_ context.Context, job entities.Job, command string, fn func() error) {
	if err := fn(); err != nil {
		h.logger.Error("failed to send "+command+" command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

func encodeVariables(bpmnErr *BPMNError) (string, bool) {
	vars := bpmnErr.ToErrorVariables()
	data, err := json.Marshal(vars)
	if err != nil || string(data) == "null" {
		return "", false
	}
	return string(data), true
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"technical":        IsTechnical(stdErr.Code),
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}

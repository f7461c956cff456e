// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"credit-risk-dashboard/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the signature every credit worker's Handle method has.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerGroup tracks the job workers opened at startup so they can be
// closed together on shutdown.
type WorkerGroup struct {
	mu      sync.Mutex
	workers map[string]worker.JobWorker
	logger  *zap.Logger
}

func NewWorkerGroup(log *zap.Logger) *WorkerGroup {
	return &WorkerGroup{
		workers: make(map[string]worker.JobWorker),
		logger:  log,
	}
}

// Start opens a job worker for taskType unless it is disabled.
func (g *WorkerGroup) Start(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc) {
	if !wcfg.Enabled {
		g.logger.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	g.mu.Lock()
	g.workers[taskType] = jobWorker
	g.mu.Unlock()

	g.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

// TaskTypes lists the workers currently open.
func (g *WorkerGroup) TaskTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.workers))
	for taskType := range g.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (g *WorkerGroup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for taskType, w := range g.workers {
		g.logger.Info("stopping worker", zap.String("taskType", taskType))
		w.Close()
		w.AwaitClose()
	}
	g.workers = make(map[string]worker.JobWorker)
}

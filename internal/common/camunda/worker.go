// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"product-ranking/internal/common/config"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type HandlerFunc func(client worker.JobClient, job entities.Job)

// StartWorker opens a job worker for taskType, or returns nil when disabled.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return w
}

// Instrument tracks the active job gauge around handler.
func Instrument(taskType string, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		gauge := metrics.WorkerJobsActive.WithLabelValues(taskType)
		gauge.Inc()
		defer gauge.Dec()
		handler(client, job)
	}
}

// DecodeVariables validates the job variables against schema and decodes them into dst.
func DecodeVariables(variables string, schema *validation.Schema, dst interface{}) error {
	raw := []byte(variables)
	if schema != nil {
		result, err := schema.Validate(raw)
		if err != nil {
			return apperrors.NewParseError(err)
		}
		if !result.Valid {
			return apperrors.NewInvalidInputError(result.Error())
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewParseError(err)
	}
	return nil
}

// CompleteJob sends the completion command, retrying transient gateway failures.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, retry *RetryConfig) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return withRetry(ctx, retry, func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	}, "complete-job")
}

// JobReporter completes or fails jobs and records their metrics.
type JobReporter struct {
	taskType string
	errors   *apperrors.ErrorHandler
	retry    *RetryConfig
	obs      *observability.Observability
	logger   logger.Logger
}

// NewJobReporter builds a reporter for taskType. obs may be nil.
func NewJobReporter(taskType string, obs *observability.Observability, log logger.Logger) *JobReporter {
	return &JobReporter{
		taskType: taskType,
		errors:   apperrors.NewErrorHandler(log),
		retry:    &RetryConfig{MaxRetries: 2, BaseDelay: 200 * time.Millisecond, MaxDelay: time.Second},
		obs:      obs,
		logger:   log,
	}
}

func (r *JobReporter) Complete(client worker.JobClient, job entities.Job, output interface{}, start time.Time) {
	ctx := context.Background()
	if err := CompleteJob(ctx, client, job, output, r.retry); err != nil {
		r.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		metrics.ObserveJob(r.taskType, start, "COMPLETE_FAILED")
		r.obs.RecordJob(ctx, r.taskType, "complete_failed", time.Since(start))
		return
	}
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": time.Since(start).Milliseconds(),
	})
	metrics.ObserveJob(r.taskType, start, "")
	r.obs.RecordJob(ctx, r.taskType, "completed", time.Since(start))
}

func (r *JobReporter) Fail(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.Normalize(err)
	ctx := context.Background()
	r.errors.HandleJobError(ctx, client, job, stdErr)
	metrics.ObserveJob(r.taskType, start, string(stdErr.Code))
	r.obs.RecordJob(ctx, r.taskType, "failed", time.Since(start))
}

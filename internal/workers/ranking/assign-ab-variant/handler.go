// internal/workers/ranking/assign-ab-variant/handler.go
package assignabvariant

import (
	"context"
	"time"

	"product-ranking/internal/common/camunda"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/ranking"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "assign-ab-variant"
)

type Handler struct {
	config   *Config
	reporter *camunda.JobReporter
	logger   logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:   config,
		reporter: camunda.NewJobReporter(TaskType, obs, log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()

	var input Input
	if err := camunda.DecodeVariables(job.Variables, inputSchema, &input); err != nil {
		h.reporter.Fail(client, job, err, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(client, job, err, start)
		return
	}

	h.reporter.Complete(client, job, output, start)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.UserID == "" || input.TestName == "" {
		return nil, apperrors.NewInvalidInputError("userId and testName are required")
	}

	variant := ranking.GetABTestVariant(input.UserID, input.TestName)
	metrics.ABAssignments.WithLabelValues(input.TestName, variant).Inc()

	h.logger.Debug("variant assigned", map[string]interface{}{
		"userId":   input.UserID,
		"testName": input.TestName,
		"variant":  variant,
	})

	return &Output{
		UserID:   input.UserID,
		TestName: input.TestName,
		Variant:  variant,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

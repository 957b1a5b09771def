// internal/workers/ranking/update-user-profile/handler.go
package updateuserprofile

import (
	"context"
	"errors"
	"time"

	"product-ranking/internal/common/camunda"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/ranking"
	"product-ranking/internal/workers/ranking/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-user-profile"
)

type Handler struct {
	config   *Config
	engine   *ranking.Engine
	reporter *camunda.JobReporter
	logger   logger.Logger
}

func NewHandler(config *Config, engine *ranking.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:   config,
		engine:   engine,
		reporter: camunda.NewJobReporter(TaskType, obs, log),
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job.Variables, inputSchema, &input); err != nil {
		h.reporter.Fail(client, job, err, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.reporter.Fail(client, job, shared.MapError(ctx, TaskType, err), start)
		return
	}

	h.reporter.Complete(client, job, output, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	behavior := input.Behavior.Type
	if behavior != ranking.BehaviorView && behavior != ranking.BehaviorPurchase {
		behavior = "unknown"
	}

	profile, err := h.engine.UpdateUserProfile(ctx, input.UserID, input.Behavior)
	if err != nil {
		metrics.ProfileUpdates.WithLabelValues(behavior, "failed").Inc()
		return nil, h.mapError(input, err)
	}
	metrics.ProfileUpdates.WithLabelValues(behavior, "updated").Inc()

	h.logger.Info("user profile updated", map[string]interface{}{
		"userId":        input.UserID,
		"behavior":      input.Behavior.Type,
		"purchaseCount": len(profile.PurchaseHistory),
	})

	return &Output{
		UserID:           input.UserID,
		ViewedCategories: profile.ViewedCategories,
		ViewedBrands:     profile.ViewedBrands,
		PurchaseCount:    len(profile.PurchaseHistory),
		AvgPriceRange:    profile.AvgPriceRange,
		LastActivity:     profile.LastActivity,
	}, nil
}

func (h *Handler) mapError(input *Input, err error) error {
	switch {
	case errors.Is(err, ranking.ErrUnknownBehavior):
		return apperrors.NewInvalidBehaviorError(input.Behavior.Type)
	case errors.Is(err, ranking.ErrEmptyUserID):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ranking.ErrNoProfileStore):
		return apperrors.NewInternalError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewScoringTimeoutError(TaskType)
	default:
		return apperrors.NewProfileStoreFailedError(input.UserID, err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/ranking/calculate-product-score/handler.go
package calculateproductscore

import (
	"context"
	"errors"
	"time"

	"product-ranking/internal/catalog"
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
	TaskType = "calculate-product-score"
)

type Handler struct {
	config   *Config
	engine   *ranking.Engine
	catalog  catalog.Loader
	reporter *camunda.JobReporter
	logger   logger.Logger
}

func NewHandler(config *Config, engine *ranking.Engine, loader catalog.Loader, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:   config,
		engine:   engine,
		catalog:  loader,
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
	product, err := h.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	user := input.UserProfile
	if user == nil && input.UserID != "" {
		user = h.engine.UserProfile(ctx, input.UserID)
	}

	contextType := input.ContextType
	if contextType == "" {
		contextType = ranking.ContextGeneral
		if user != nil {
			contextType = ranking.ContextPersonalized
		}
	}

	sc := h.engine.MarketContext(contextType, user)
	if input.MarketAverages != nil {
		sc.Market = *input.MarketAverages
	}

	result := h.engine.CalculateProductScore(*product, sc)
	metrics.ObserveScores(contextType, result.Score)

	h.logger.Info("product scored", map[string]interface{}{
		"productId":    product.ID,
		"score":        result.Score,
		"contextType":  contextType,
		"personalized": user != nil,
	})

	return &Output{
		ProductID:   product.ID,
		Score:       result.Score,
		ScoreResult: result,
	}, nil
}

func (h *Handler) resolveProduct(ctx context.Context, input *Input) (*ranking.Product, error) {
	if input.Product != nil {
		return input.Product, nil
	}
	if h.catalog == nil {
		return nil, apperrors.NewInvalidInputError("product must be supplied inline when no catalog is configured")
	}

	product, err := h.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, apperrors.NewProductNotFoundError(input.ProductID)
		}
		return nil, err
	}
	return product, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/ranking/get-trending-products/handler.go
package gettrendingproducts

import (
	"context"
	"time"

	"product-ranking/internal/catalog"
	"product-ranking/internal/common/aws"
	"product-ranking/internal/common/camunda"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/ranking"
	"product-ranking/internal/workers/ranking/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "get-trending-products"
)

// Publisher sends trending snapshots downstream.
type Publisher interface {
	PublishTrending(ctx context.Context, snapshot aws.TrendingSnapshot) (string, error)
}

type Handler struct {
	config    *Config
	engine    *ranking.Engine
	catalog   catalog.Loader
	publisher Publisher
	obs       *observability.Observability
	reporter  *camunda.JobReporter
	logger    logger.Logger
	newID     func() string
}

// NewHandler builds the trending handler. publisher may be nil, in which
// case publish requests are ignored.
func NewHandler(config *Config, engine *ranking.Engine, loader catalog.Loader, publisher Publisher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:    config,
		engine:    engine,
		catalog:   loader,
		publisher: publisher,
		obs:       obs,
		reporter:  camunda.NewJobReporter(TaskType, obs, log),
		logger:    log,
		newID:     uuid.NewString,
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
	candidates := input.Products
	if len(candidates) == 0 && h.catalog != nil {
		loaded, err := h.catalog.LoadCandidates(ctx, catalog.Query{
			CategorySlug:    input.CategorySlug,
			SubcategorySlug: input.SubcategorySlug,
			Size:            shared.CandidatePoolSize,
			Sort:            catalog.SortRecentActivity,
		})
		if err != nil {
			return nil, err
		}
		candidates = loaded
	}

	limit := shared.Limit(input.Limit, h.config.DefaultLimit, h.config.MaxLimit)
	trending := h.engine.GetTrendingProducts(candidates, limit)
	h.obs.RecordResultSize(ctx, TaskType, len(trending))

	output := &Output{
		RankingID:   h.newID(),
		Products:    trending,
		Count:       len(trending),
		GeneratedAt: time.Now().UTC(),
	}

	if input.Publish && h.publisher != nil {
		messageID, err := h.publish(ctx, input, output)
		if err != nil {
			metrics.TrendingSnapshotsPublished.WithLabelValues("failed").Inc()
			return nil, apperrors.NewPublishFailedError("trending", err)
		}
		metrics.TrendingSnapshotsPublished.WithLabelValues("published").Inc()
		output.Published = true
		output.MessageID = messageID
	}

	h.logger.Info("trending products ranked", map[string]interface{}{
		"rankingId":  output.RankingID,
		"candidates": len(candidates),
		"returned":   output.Count,
		"published":  output.Published,
	})
	return output, nil
}

func (h *Handler) publish(ctx context.Context, input *Input, output *Output) (string, error) {
	entries := make([]aws.TrendingEntry, len(output.Products))
	for i, tp := range output.Products {
		entries[i] = aws.TrendingEntry{ProductID: tp.Product.ID, TrendingScore: tp.TrendingScore}
	}
	return h.publisher.PublishTrending(ctx, aws.TrendingSnapshot{
		RankingID:    output.RankingID,
		CategorySlug: input.CategorySlug,
		GeneratedAt:  output.GeneratedAt,
		Products:     entries,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

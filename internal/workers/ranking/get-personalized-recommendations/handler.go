// internal/workers/ranking/get-personalized-recommendations/handler.go
package getpersonalizedrecommendations

import (
	"context"
	"time"

	"product-ranking/internal/catalog"
	"product-ranking/internal/common/camunda"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/common/observability"
	"product-ranking/internal/ranking"
	"product-ranking/internal/workers/ranking/shared"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-personalized-recommendations"
)

type Handler struct {
	config   *Config
	engine   *ranking.Engine
	catalog  catalog.Loader
	obs      *observability.Observability
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
		obs:      obs,
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
	if input.UserID == "" {
		return nil, ranking.ErrEmptyUserID
	}

	candidates := input.Products
	if len(candidates) == 0 && h.catalog != nil {
		loaded, err := h.catalog.LoadCandidates(ctx, catalog.Query{
			CategorySlug: input.CategorySlug,
			Text:         input.SearchText,
			InStockOnly:  input.InStockOnly,
			Size:         shared.CandidatePoolSize,
		})
		if err != nil {
			return nil, err
		}
		candidates = loaded
	}

	limit := shared.Limit(input.Limit, h.config.DefaultLimit, h.config.MaxLimit)
	user := h.engine.UserProfile(ctx, input.UserID)
	ranked := h.engine.RankForProfile(candidates, user, limit)
	personalized := user != nil

	metrics.ObserveScores(ranking.ContextPersonalized, shared.Scores(ranked)...)
	h.obs.RecordResultSize(ctx, TaskType, len(ranked))

	recs := make([]Recommendation, len(ranked))
	for i, sp := range ranked {
		recs[i] = Recommendation{
			ProductID: sp.Product.ID,
			Name:      sp.Product.Name,
			Score:     sp.Result.Score,
			Rank:      i + 1,
		}
	}

	h.logger.Info("personalized recommendations ranked", map[string]interface{}{
		"userId":       input.UserID,
		"candidates":   len(candidates),
		"returned":     len(ranked),
		"personalized": personalized,
	})

	return &Output{
		UserID:          input.UserID,
		Personalized:    personalized,
		Recommendations: recs,
		Scored:          ranked,
		Count:           len(ranked),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/ranking/shared/shared.go
package shared

import (
	"context"
	stderrors "errors"

	"product-ranking/internal/catalog"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/ranking"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	// CandidatePoolSize is how many catalog candidates a list job ranks.
	CandidatePoolSize = 100
)

// Limit resolves a requested result size. Zero or negative falls back to def.
func Limit(requested, def, ceiling int) int {
	if requested <= 0 {
		requested = def
	}
	if ceiling > 0 && requested > ceiling {
		return ceiling
	}
	return requested
}

// MapError converts catalog, profile and context failures into the
// standardized job error codes.
func MapError(ctx context.Context, taskType string, err error) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	switch {
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewScoringTimeoutError(taskType)
	case stderrors.Is(err, catalog.ErrSearchQuery):
		return apperrors.NewSearchQueryFailedError(err)
	case stderrors.Is(err, catalog.ErrCatalogQuery):
		return apperrors.NewCatalogQueryFailedError(err)
	case stderrors.Is(err, ranking.ErrEmptyUserID):
		return apperrors.NewInvalidInputError(err.Error())
	default:
		return apperrors.NewInternalError(err)
	}
}

// Scores extracts the final scores of a ranked list.
func Scores(ranked []ranking.ScoredProduct) []float64 {
	out := make([]float64, len(ranked))
	for i, sp := range ranked {
		out[i] = sp.Result.Score
	}
	return out
}

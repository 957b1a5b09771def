// internal/workers/ranking/shared/shared_test.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"product-ranking/internal/catalog"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/ranking"

	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	assert.Equal(t, 20, Limit(0, 20, 100))
	assert.Equal(t, 20, Limit(-3, 20, 100))
	assert.Equal(t, 7, Limit(7, 20, 100))
	assert.Equal(t, 100, Limit(500, 20, 100))
	assert.Equal(t, 500, Limit(500, 20, 0))
}

func TestMapError(t *testing.T) {
	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want apperrors.ErrorCode
	}{
		{"standard error passes through", context.Background(), apperrors.NewProductNotFoundError("p1"), apperrors.ErrCodeProductNotFound},
		{"wrapped standard error", context.Background(), fmt.Errorf("load: %w", apperrors.NewInvalidInputError("x")), apperrors.ErrCodeInvalidInput},
		{"deadline", context.Background(), context.DeadlineExceeded, apperrors.ErrCodeScoringTimeout},
		{"expired context", expired, errors.New("io"), apperrors.ErrCodeScoringTimeout},
		{"search", context.Background(), fmt.Errorf("%w: 503", catalog.ErrSearchQuery), apperrors.ErrCodeSearchQueryFailed},
		{"catalog", context.Background(), fmt.Errorf("%w: conn reset", catalog.ErrCatalogQuery), apperrors.ErrCodeCatalogQueryFailed},
		{"empty user", context.Background(), ranking.ErrEmptyUserID, apperrors.ErrCodeInvalidInput},
		{"unknown", context.Background(), errors.New("boom"), apperrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapError(tt.ctx, "task", tt.err).Code)
		})
	}
}

func TestScores(t *testing.T) {
	ranked := []ranking.ScoredProduct{
		{Result: ranking.ScoreResult{Score: 80}},
		{Result: ranking.ScoreResult{Score: 12.5}},
	}
	assert.Equal(t, []float64{80, 12.5}, Scores(ranked))
}

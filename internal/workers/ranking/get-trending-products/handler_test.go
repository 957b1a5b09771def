// internal/workers/ranking/get-trending-products/handler_test.go
package gettrendingproducts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"product-ranking/internal/catalog"
	"product-ranking/internal/common/aws"
	"product-ranking/internal/common/camunda"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) LoadCandidates(ctx context.Context, q catalog.Query) ([]ranking.Product, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]ranking.Product)
	return products, args.Error(1)
}

func (m *mockLoader) GetProduct(ctx context.Context, id string) (*ranking.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*ranking.Product)
	return p, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishTrending(ctx context.Context, snapshot aws.TrendingSnapshot) (string, error) {
	args := m.Called(ctx, snapshot)
	return args.String(0), args.Error(1)
}

func trendingProducts() []ranking.Product {
	return []ranking.Product{
		{ID: "flat", Analytics: ranking.Analytics{ViewsLast7Days: 10, ViewsPrevious7Days: 10, SalesLast7Days: 2, SalesPrevious7Days: 2}},
		{ID: "rising", Analytics: ranking.Analytics{ViewsLast7Days: 100, ViewsPrevious7Days: 10, SalesLast7Days: 12, SalesPrevious7Days: 3, WishlistLast7Days: 8, WishlistPrevious7Days: 2}},
		{ID: "new", Analytics: ranking.Analytics{ViewsLast7Days: 30, SalesLast7Days: 1}},
	}
}

func setupHandler(t *testing.T, loader catalog.Loader, pub Publisher) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	engine, err := ranking.NewEngine(ranking.DefaultConfig(), nil, log)
	require.NoError(t, err)

	h := NewHandler(&Config{Timeout: 5 * time.Second, DefaultLimit: 20, MaxLimit: 100}, engine, loader, pub, nil, log)
	h.newID = func() string { return "rank-fixed" }
	return h
}

func TestHandler_Execute_InlineProducts(t *testing.T) {
	loader := &mockLoader{}
	h := setupHandler(t, loader, nil)

	out, err := h.Execute(context.Background(), &Input{Products: trendingProducts()})
	require.NoError(t, err)

	require.Len(t, out.Products, 3)
	// new: 0.4*30 + 0.4*1 = 12.4; rising: 0.4*10 + 0.4*4 + 0.2*4 = 6.4; flat: 0.8
	assert.Equal(t, "new", out.Products[0].Product.ID)
	assert.InDelta(t, 12.4, out.Products[0].TrendingScore, 1e-9)
	assert.Equal(t, "rising", out.Products[1].Product.ID)
	assert.InDelta(t, 6.4, out.Products[1].TrendingScore, 1e-9)
	assert.Equal(t, "flat", out.Products[2].Product.ID)

	assert.Equal(t, "rank-fixed", out.RankingID)
	assert.Equal(t, 3, out.Count)
	assert.False(t, out.Published)
	loader.AssertNotCalled(t, "LoadCandidates", mock.Anything, mock.Anything)
}

func TestHandler_Execute_Limit(t *testing.T) {
	h := setupHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{Products: trendingProducts(), Limit: 1})
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "new", out.Products[0].Product.ID)
}

func TestHandler_Execute_LoadsCandidates(t *testing.T) {
	loader := &mockLoader{}
	loader.On("LoadCandidates", mock.Anything, catalog.Query{
		CategorySlug: "toys",
		Size:         100,
		Sort:         catalog.SortRecentActivity,
	}).Return(trendingProducts(), nil)

	h := setupHandler(t, loader, nil)
	out, err := h.Execute(context.Background(), &Input{CategorySlug: "toys"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	loader.AssertExpectations(t)
}

func TestHandler_Execute_SearchFailure(t *testing.T) {
	loader := &mockLoader{}
	loader.On("LoadCandidates", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: 503 Service Unavailable", catalog.ErrSearchQuery))

	h := setupHandler(t, loader, nil)
	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrSearchQuery)
}

func TestHandler_Execute_Publishes(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishTrending", mock.Anything, mock.MatchedBy(func(s aws.TrendingSnapshot) bool {
		return s.RankingID == "rank-fixed" &&
			s.CategorySlug == "toys" &&
			len(s.Products) == 2 &&
			s.Products[0].ProductID == "new"
	})).Return("msg-42", nil)

	h := setupHandler(t, nil, pub)
	out, err := h.Execute(context.Background(), &Input{
		Products:     trendingProducts(),
		CategorySlug: "toys",
		Limit:        2,
		Publish:      true,
	})
	require.NoError(t, err)
	assert.True(t, out.Published)
	assert.Equal(t, "msg-42", out.MessageID)
	pub.AssertExpectations(t)
}

func TestHandler_Execute_PublishFailure(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishTrending", mock.Anything, mock.Anything).Return("", errors.New("throttled"))

	h := setupHandler(t, nil, pub)
	_, err := h.Execute(context.Background(), &Input{Products: trendingProducts(), Publish: true})
	require.Error(t, err)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodePublishFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_PublishWithoutPublisher(t *testing.T) {
	h := setupHandler(t, nil, nil)
	out, err := h.Execute(context.Background(), &Input{Products: trendingProducts(), Publish: true})
	require.NoError(t, err)
	assert.False(t, out.Published)
}

func TestInputSchema(t *testing.T) {
	var input Input
	require.NoError(t, camunda.DecodeVariables(`{"categorySlug":"toys","limit":5}`, inputSchema, &input))
	assert.Equal(t, 5, input.Limit)

	err := camunda.DecodeVariables(`{"limit":-1}`, inputSchema, &input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)

	err = camunda.DecodeVariables(`{"products":[{"price":1}]}`, inputSchema, &input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
}

// internal/catalog/service_test.go
package catalog

import (
	"context"
	"testing"

	"product-ranking/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListProducts(ctx context.Context, f Filter) ([]ranking.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]ranking.Product), args.Error(1)
}

func (m *mockSource) GetProducts(ctx context.Context, ids []string) ([]ranking.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]ranking.Product), args.Error(1)
}

func (m *mockSource) GetProduct(ctx context.Context, id string) (*ranking.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*ranking.Product)
	return p, args.Error(1)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchCandidateIDs(ctx context.Context, q Query) ([]string, error) {
	args := m.Called(ctx, q)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

var _ Loader = (*Service)(nil)

func TestService_LoadCandidates_PassesSort(t *testing.T) {
	source := new(mockSource)
	svc := NewService(source, nil, nil)
	ctx := context.Background()

	source.On("ListProducts", ctx, Filter{Limit: 100, Sort: SortRecentActivity}).Return([]ranking.Product{}, nil)

	_, err := svc.LoadCandidates(ctx, Query{Size: 100, Sort: SortRecentActivity})
	require.NoError(t, err)
	source.AssertExpectations(t)
}

func TestService_LoadCandidates_WithoutSearcher(t *testing.T) {
	source := new(mockSource)
	svc := NewService(source, nil, nil)
	ctx := context.Background()

	want := []ranking.Product{{ID: "p1"}}
	source.On("ListProducts", ctx, Filter{CategorySlug: "toys", InStockOnly: true, Limit: 20}).Return(want, nil)

	got, err := svc.LoadCandidates(ctx, Query{CategorySlug: "toys", InStockOnly: true, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	source.AssertExpectations(t)
}

func TestService_LoadCandidates_SearchThenHydrate(t *testing.T) {
	source := new(mockSource)
	searcher := new(mockSearcher)
	svc := NewService(source, searcher, nil)
	ctx := context.Background()
	q := Query{Text: "mug"}

	searcher.On("SearchCandidateIDs", ctx, q).Return([]string{"p2", "p1"}, nil)
	source.On("GetProducts", ctx, []string{"p2", "p1"}).Return([]ranking.Product{{ID: "p2"}, {ID: "p1"}}, nil)

	got, err := svc.LoadCandidates(ctx, q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)
	searcher.AssertExpectations(t)
	source.AssertExpectations(t)
}

func TestService_LoadCandidates_NoHits(t *testing.T) {
	source := new(mockSource)
	searcher := new(mockSearcher)
	svc := NewService(source, searcher, nil)
	ctx := context.Background()

	searcher.On("SearchCandidateIDs", ctx, Query{}).Return([]string{}, nil)

	got, err := svc.LoadCandidates(ctx, Query{})
	require.NoError(t, err)
	assert.Empty(t, got)
	source.AssertNotCalled(t, "GetProducts", mock.Anything, mock.Anything)
}

func TestService_LoadCandidates_SearchError(t *testing.T) {
	source := new(mockSource)
	searcher := new(mockSearcher)
	svc := NewService(source, searcher, nil)
	ctx := context.Background()

	searcher.On("SearchCandidateIDs", ctx, Query{}).Return(nil, ErrSearchQuery)

	_, err := svc.LoadCandidates(ctx, Query{})
	assert.ErrorIs(t, err, ErrSearchQuery)
}

func TestService_GetProduct(t *testing.T) {
	source := new(mockSource)
	svc := NewService(source, nil, nil)
	ctx := context.Background()

	source.On("GetProduct", ctx, "p9").Return(&ranking.Product{ID: "p9"}, nil)

	p, err := svc.GetProduct(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
}

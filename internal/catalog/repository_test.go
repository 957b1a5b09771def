// internal/catalog/repository_test.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"product-ranking/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{
	"id", "name", "price", "stock_quantity", "category_slug", "subcategory_slug", "brand",
	"created_at", "description", "avg_rating", "shipping_days", "admin_boost",
	"analytics", "seller", "images", "campaigns",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func productRow(rows *sqlmock.Rows, id, category string) *sqlmock.Rows {
	created := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "Product "+id, 49.99, 12, category, "shirts", "acme",
		created, "soft cotton", 4.5, 2.0, 0.3,
		[]byte(`{"views_last_30_days":1200,"sales_last_30_days":40,"return_rate":0.05}`),
		[]byte(`{"id":"s1","rating":4.8,"avg_response_hours":2,"avg_fulfillment_hours":20}`),
		[]byte(`["a.jpg","b.jpg"]`),
		[]byte(`[{"id":"c1","name":"spring","priority":5}]`),
	)
}

func TestRepository_ListProducts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, logger.NewTestLogger(t))

	rows := productRow(sqlmock.NewRows(productRowColumns), "p1", "clothing")
	rows.AddRow("p2", "Bare", 10.0, 0, "clothing", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`FROM products WHERE is_active = true AND category_slug = \$1 AND stock_quantity > 0 ORDER BY created_at DESC NULLS LAST LIMIT \$2`).
		WithArgs("clothing", 25).
		WillReturnRows(rows)

	products, err := repo.ListProducts(context.Background(), Filter{CategorySlug: "clothing", InStockOnly: true, Limit: 25})
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "shirts", p.SubcategorySlug)
	assert.Equal(t, "acme", p.Brand)
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, 2024, p.CreatedAt.Year())
	assert.Equal(t, 1200, p.Analytics.ViewsLast30Days)
	assert.Equal(t, 0.05, p.Analytics.ReturnRate)
	require.NotNil(t, p.Seller)
	assert.Equal(t, 4.8, p.Seller.Rating)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	require.Len(t, p.Campaigns, 1)
	assert.Equal(t, 5.0, p.Campaigns[0].Priority)

	bare := products[1]
	assert.Nil(t, bare.CreatedAt)
	assert.Nil(t, bare.Seller)
	assert.Empty(t, bare.Images)
	assert.Equal(t, 0.0, bare.AvgRating)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetProductsKeepsRequestedOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)

	rows := sqlmock.NewRows(productRowColumns)
	productRow(rows, "b", "garden")
	productRow(rows, "a", "garden")

	mock.ExpectQuery(`FROM products WHERE is_active = true AND id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnRows(rows)

	products, err := repo.GetProducts(context.Background(), []string{"a", "missing", "b"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "b", products[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetProductNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)

	mock.ExpectQuery(`FROM products`).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err := repo.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)

	mock.ExpectQuery(`FROM products`).WillReturnError(errors.New("connection reset"))

	_, err := repo.ListProducts(context.Background(), Filter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogQuery)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRepository_BadJSONB(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)

	rows := sqlmock.NewRows(productRowColumns).
		AddRow("p1", "Broken", 1.0, 1, "toys", nil, nil, nil, nil, nil, nil, nil, []byte(`{oops`), nil, nil, nil)
	mock.ExpectQuery(`FROM products`).WillReturnRows(rows)

	_, err := repo.ListProducts(context.Background(), Filter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogQuery)
	assert.Contains(t, err.Error(), "product p1 analytics")
}

func TestRepository_GetProductsEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, nil)

	products, err := repo.GetProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(Filter{SubcategorySlug: "pants"})

	assert.Contains(t, query, "subcategory_slug = $1")
	assert.Contains(t, query, "LIMIT $2")
	assert.NotContains(t, query, "stock_quantity > 0")
	assert.Equal(t, []interface{}{"pants", defaultListLimit}, args)
}

func TestBuildListQuery_RecentActivityOrder(t *testing.T) {
	query, args := buildListQuery(Filter{CategorySlug: "toys", Limit: 100, Sort: SortRecentActivity})

	assert.Contains(t, query, "ORDER BY COALESCE((analytics->>'views_last_7_days')::bigint, 0) DESC")
	assert.Contains(t, query, "created_at DESC NULLS LAST LIMIT $2")
	assert.Equal(t, []interface{}{"toys", 100}, args)

	newest, _ := buildListQuery(Filter{CategorySlug: "toys"})
	assert.Contains(t, newest, "ORDER BY created_at DESC NULLS LAST LIMIT $2")
	assert.NotContains(t, newest, "views_last_7_days")
}

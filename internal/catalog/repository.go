// internal/catalog/repository.go
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"product-ranking/internal/common/logger"
	"product-ranking/internal/ranking"

	"github.com/lib/pq"
)

const productColumns = `id, name, price, stock_quantity, category_slug, subcategory_slug, brand,
	created_at, description, avg_rating, shipping_days, admin_boost,
	analytics, seller, images, campaigns`

const defaultListLimit = 200

// Filter narrows ListProducts. Empty fields are ignored.
type Filter struct {
	CategorySlug    string
	SubcategorySlug string
	IDs             []string
	InStockOnly     bool
	Limit           int
	Sort            SortOrder
}

// Repository reads product snapshots from the products table.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Repository{db: db, logger: log.WithFields(map[string]interface{}{"component": "catalog-repository"})}
}

func (r *Repository) ListProducts(ctx context.Context, f Filter) ([]ranking.Product, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}
	defer rows.Close()

	products := []ranking.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}

	r.logger.Debug("products loaded", map[string]interface{}{
		"count":    len(products),
		"category": f.CategorySlug,
	})
	return products, nil
}

// GetProducts loads ids in the order given. Unknown ids are skipped.
func (r *Repository) GetProducts(ctx context.Context, ids []string) ([]ranking.Product, error) {
	if len(ids) == 0 {
		return []ranking.Product{}, nil
	}
	found, err := r.ListProducts(ctx, Filter{IDs: ids, Limit: len(ids)})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]ranking.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]ranking.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*ranking.Product, error) {
	products, err := r.GetProducts(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return &products[0], nil
}

func buildListQuery(f Filter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	where = append(where, "is_active = true")
	if f.CategorySlug != "" {
		add("category_slug = $%d", f.CategorySlug)
	}
	if f.SubcategorySlug != "" {
		add("subcategory_slug = $%d", f.SubcategorySlug)
	}
	if len(f.IDs) > 0 {
		add("id = ANY($%d)", pq.Array(f.IDs))
	}
	if f.InStockOnly {
		where = append(where, "stock_quantity > 0")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY %s LIMIT $%d",
		productColumns, strings.Join(where, " AND "), listOrder(f.Sort), len(args),
	)
	return query, args
}

func listOrder(order SortOrder) string {
	if order == SortRecentActivity {
		return "COALESCE((analytics->>'views_last_7_days')::bigint, 0) DESC, " +
			"COALESCE((analytics->>'sales_last_7_days')::bigint, 0) DESC, created_at DESC NULLS LAST"
	}
	return "created_at DESC NULLS LAST"
}

func scanProduct(rows *sql.Rows) (ranking.Product, error) {
	var (
		p                                   ranking.Product
		subcategory, brand, description     sql.NullString
		createdAt                           sql.NullTime
		avgRating, shippingDays, adminBoost sql.NullFloat64
		analytics, seller, images, campaign []byte
	)

	err := rows.Scan(
		&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CategorySlug, &subcategory, &brand,
		&createdAt, &description, &avgRating, &shippingDays, &adminBoost,
		&analytics, &seller, &images, &campaign,
	)
	if err != nil {
		return p, err
	}

	p.SubcategorySlug = subcategory.String
	p.Brand = brand.String
	p.Description = description.String
	p.AvgRating = avgRating.Float64
	p.ShippingDays = shippingDays.Float64
	p.AdminBoost = adminBoost.Float64
	if createdAt.Valid {
		t := createdAt.Time
		p.CreatedAt = &t
	}

	if err := unmarshalJSONB(analytics, &p.Analytics); err != nil {
		return p, fmt.Errorf("product %s analytics: %w", p.ID, err)
	}
	if len(seller) > 0 && string(seller) != "null" {
		p.Seller = &ranking.Seller{}
		if err := json.Unmarshal(seller, p.Seller); err != nil {
			return p, fmt.Errorf("product %s seller: %w", p.ID, err)
		}
	}
	if err := unmarshalJSONB(images, &p.Images); err != nil {
		return p, fmt.Errorf("product %s images: %w", p.ID, err)
	}
	if err := unmarshalJSONB(campaign, &p.Campaigns); err != nil {
		return p, fmt.Errorf("product %s campaigns: %w", p.ID, err)
	}
	return p, nil
}

func unmarshalJSONB(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

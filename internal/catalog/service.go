// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"

	"product-ranking/internal/common/logger"
	"product-ranking/internal/ranking"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCatalogQuery    = errors.New("catalog query failed")
	ErrSearchQuery     = errors.New("search query failed")
)

// Loader is what the job handlers need from the catalog.
type Loader interface {
	LoadCandidates(ctx context.Context, q Query) ([]ranking.Product, error)
	GetProduct(ctx context.Context, id string) (*ranking.Product, error)
}

type ProductSource interface {
	ListProducts(ctx context.Context, f Filter) ([]ranking.Product, error)
	GetProducts(ctx context.Context, ids []string) ([]ranking.Product, error)
	GetProduct(ctx context.Context, id string) (*ranking.Product, error)
}

type CandidateSearcher interface {
	SearchCandidateIDs(ctx context.Context, q Query) ([]string, error)
}

// Service resolves candidates through the search index when one is
// configured and hydrates them from the product source.
type Service struct {
	source   ProductSource
	searcher CandidateSearcher
	logger   logger.Logger
}

// NewService wires a product source with an optional searcher.
func NewService(source ProductSource, searcher CandidateSearcher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		source:   source,
		searcher: searcher,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog-service"}),
	}
}

func (s *Service) LoadCandidates(ctx context.Context, q Query) ([]ranking.Product, error) {
	if s.searcher == nil {
		return s.source.ListProducts(ctx, Filter{
			CategorySlug:    q.CategorySlug,
			SubcategorySlug: q.SubcategorySlug,
			InStockOnly:     q.InStockOnly,
			Limit:           q.size(),
			Sort:            q.Sort,
		})
	}

	ids, err := s.searcher.SearchCandidateIDs(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		s.logger.Info("no candidates matched", map[string]interface{}{
			"category":    q.CategorySlug,
			"subcategory": q.SubcategorySlug,
		})
		return []ranking.Product{}, nil
	}
	return s.source.GetProducts(ctx, ids)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*ranking.Product, error) {
	return s.source.GetProduct(ctx, id)
}

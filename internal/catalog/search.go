// internal/catalog/search.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"product-ranking/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	DefaultIndex      = "products"
	defaultSearchSize = 50
	maxSearchSize     = 100
)

// SortOrder decides which candidates survive the pool size cap.
type SortOrder string

const (
	SortNewest         SortOrder = ""
	SortRecentActivity SortOrder = "recent_activity"
)

// Query selects ranking candidates.
type Query struct {
	CategorySlug    string    `json:"categorySlug,omitempty"`
	SubcategorySlug string    `json:"subcategorySlug,omitempty"`
	Text            string    `json:"text,omitempty"`
	InStockOnly     bool      `json:"inStockOnly,omitempty"`
	Size            int       `json:"size,omitempty"`
	Sort            SortOrder `json:"sort,omitempty"`
}

func (q Query) size() int {
	switch {
	case q.Size <= 0:
		return defaultSearchSize
	case q.Size > maxSearchSize:
		return maxSearchSize
	}
	return q.Size
}

// Searcher finds candidate product ids in the search index.
type Searcher struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearcher(client *elasticsearch.Client, index string, log logger.Logger) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Searcher{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search", "index": index}),
	}
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Searcher) SearchCandidateIDs(ctx context.Context, q Query) ([]string, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchQuery, err)
	}

	size := q.size()
	req := esapi.SearchRequest{
		Index:          []string{s.index},
		Body:           bytes.NewReader(body),
		Size:           &size,
		SourceIncludes: []string{"id"},
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQuery, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQuery, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQuery, err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}

	s.logger.Debug("candidate search completed", map[string]interface{}{
		"hits":      len(ids),
		"totalHits": parsed.Hits.Total.Value,
		"tookMs":    parsed.Took,
	})
	return ids, nil
}

func buildSearchBody(q Query) map[string]interface{} {
	filters := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"is_active": true}},
	}
	if q.CategorySlug != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category_slug": q.CategorySlug},
		})
	}
	if q.SubcategorySlug != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"subcategory_slug": q.SubcategorySlug},
		})
	}
	if q.InStockOnly {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"stock_quantity": map[string]interface{}{"gt": 0}},
		})
	}

	boolQuery := map[string]interface{}{"filter": filters}
	if q.Text != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  q.Text,
					"fields": []string{"name^3", "brand^2", "description"},
					"type":   "best_fields",
				},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  searchSort(q.Sort),
	}
}

func searchSort(order SortOrder) []interface{} {
	newest := map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}}
	if order != SortRecentActivity {
		return []interface{}{"_score", newest}
	}
	desc := func(field string) map[string]interface{} {
		return map[string]interface{}{field: map[string]interface{}{"order": "desc", "unmapped_type": "long"}}
	}
	return []interface{}{
		desc("analytics.views_last_7_days"),
		desc("analytics.sales_last_7_days"),
		newest,
	}
}

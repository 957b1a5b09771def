// internal/workers/ranking/get-trending-products/models.go
package gettrendingproducts

import (
	"time"

	"product-ranking/internal/common/validation"
	"product-ranking/internal/ranking"
)

type Input struct {
	Products        []ranking.Product `json:"products,omitempty"`
	CategorySlug    string            `json:"categorySlug,omitempty"`
	SubcategorySlug string            `json:"subcategorySlug,omitempty"`
	Limit           int               `json:"limit,omitempty"`
	Publish         bool              `json:"publish,omitempty"`
}

type Output struct {
	RankingID   string                    `json:"rankingId"`
	Products    []ranking.TrendingProduct `json:"trendingProducts"`
	Count       int                       `json:"count"`
	GeneratedAt time.Time                 `json:"generatedAt"`
	Published   bool                      `json:"published"`
	MessageID   string                    `json:"messageId,omitempty"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"products": {
			"type": "array",
			"items": {"type": "object", "required": ["id"]}
		},
		"categorySlug": {"type": "string"},
		"subcategorySlug": {"type": "string"},
		"limit": {"type": "integer", "minimum": 0},
		"publish": {"type": "boolean"}
	}
}`)

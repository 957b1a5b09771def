// internal/workers/ranking/get-personalized-recommendations/models.go
package getpersonalizedrecommendations

import (
	"product-ranking/internal/common/validation"
	"product-ranking/internal/ranking"
)

type Input struct {
	UserID       string            `json:"userId"`
	Products     []ranking.Product `json:"products,omitempty"`
	CategorySlug string            `json:"categorySlug,omitempty"`
	SearchText   string            `json:"searchText,omitempty"`
	InStockOnly  bool              `json:"inStockOnly,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

type Recommendation struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}

type Output struct {
	UserID          string                  `json:"userId"`
	Personalized    bool                    `json:"personalized"`
	Recommendations []Recommendation        `json:"recommendations"`
	Scored          []ranking.ScoredProduct `json:"scoredProducts"`
	Count           int                     `json:"count"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["userId"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"products": {
			"type": "array",
			"items": {"type": "object", "required": ["id"]}
		},
		"categorySlug": {"type": "string"},
		"searchText": {"type": "string", "maxLength": 200},
		"inStockOnly": {"type": "boolean"},
		"limit": {"type": "integer", "minimum": 0}
	}
}`)

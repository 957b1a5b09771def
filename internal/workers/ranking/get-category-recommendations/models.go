// internal/workers/ranking/get-category-recommendations/models.go
package getcategoryrecommendations

import (
	"product-ranking/internal/common/validation"
	"product-ranking/internal/ranking"
)

type Input struct {
	CategorySlug    string            `json:"categorySlug"`
	SubcategorySlug string            `json:"subcategorySlug,omitempty"`
	Products        []ranking.Product `json:"products,omitempty"`
	InStockOnly     bool              `json:"inStockOnly,omitempty"`
	Limit           int               `json:"limit,omitempty"`
}

type Output struct {
	CategorySlug    string                  `json:"categorySlug"`
	SubcategorySlug string                  `json:"subcategorySlug,omitempty"`
	ProductIDs      []string                `json:"productIds"`
	Scored          []ranking.ScoredProduct `json:"scoredProducts"`
	Count           int                     `json:"count"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["categorySlug"],
	"properties": {
		"categorySlug": {"type": "string", "minLength": 1, "pattern": "^[a-z0-9-]+$"},
		"subcategorySlug": {"type": "string", "pattern": "^[a-z0-9-]*$"},
		"products": {
			"type": "array",
			"items": {"type": "object", "required": ["id"]}
		},
		"inStockOnly": {"type": "boolean"},
		"limit": {"type": "integer", "minimum": 0}
	}
}`)

// internal/workers/ranking/calculate-product-score/models.go
package calculateproductscore

import (
	"product-ranking/internal/common/validation"
	"product-ranking/internal/ranking"
)

type Input struct {
	ProductID      string                  `json:"productId,omitempty"`
	Product        *ranking.Product        `json:"product,omitempty"`
	UserID         string                  `json:"userId,omitempty"`
	UserProfile    *ranking.UserProfile    `json:"userProfile,omitempty"`
	ContextType    string                  `json:"contextType,omitempty"`
	MarketAverages *ranking.MarketAverages `json:"marketAverages,omitempty"`
}

type Output struct {
	ProductID   string              `json:"productId"`
	Score       float64             `json:"score"`
	ScoreResult ranking.ScoreResult `json:"scoreResult"`
}

// An inline product wins over productId.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"properties": {
		"productId": {"type": "string", "minLength": 1},
		"product": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"price": {"type": "number"},
				"stock_quantity": {"type": "integer"}
			}
		},
		"userId": {"type": "string"},
		"userProfile": {"type": "object"},
		"contextType": {"enum": ["general", "personalized", "category"]},
		"marketAverages": {
			"type": "object",
			"properties": {
				"avgRevenue": {"type": "number", "minimum": 0},
				"avgOrderValue": {"type": "number", "minimum": 0},
				"avgViews": {"type": "number", "minimum": 0}
			}
		}
	},
	"anyOf": [
		{"required": ["productId"]},
		{"required": ["product"]}
	]
}`)

// internal/workers/ranking/update-user-profile/models.go
package updateuserprofile

import (
	"time"

	"product-ranking/internal/common/validation"
	"product-ranking/internal/ranking"
)

type Input struct {
	UserID   string           `json:"userId"`
	Behavior ranking.Behavior `json:"behavior"`
}

type Output struct {
	UserID           string         `json:"userId"`
	ViewedCategories map[string]int `json:"viewedCategories"`
	ViewedBrands     map[string]int `json:"viewedBrands"`
	PurchaseCount    int            `json:"purchaseCount"`
	AvgPriceRange    float64        `json:"avgPriceRange"`
	LastActivity     time.Time      `json:"lastActivity"`
}

// Behavior types are checked by the engine so unknown ones surface as INVALID_BEHAVIOR.
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["userId", "behavior"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"behavior": {
			"type": "object",
			"required": ["type"],
			"properties": {
				"type": {"type": "string", "minLength": 1},
				"productId": {"type": "string"},
				"category": {"type": "string"},
				"brand": {"type": "string"},
				"price": {"type": "number", "minimum": 0},
				"at": {"type": "string", "format": "date-time"}
			}
		}
	}
}`)

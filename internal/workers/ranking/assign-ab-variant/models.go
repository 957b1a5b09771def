// internal/workers/ranking/assign-ab-variant/models.go
package assignabvariant

import "product-ranking/internal/common/validation"

type Input struct {
	UserID   string `json:"userId"`
	TestName string `json:"testName"`
}

type Output struct {
	UserID   string `json:"userId"`
	TestName string `json:"testName"`
	Variant  string `json:"variant"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["userId", "testName"],
	"properties": {
		"userId": {"type": "string", "minLength": 1},
		"testName": {"type": "string", "minLength": 1, "maxLength": 100}
	}
}`)

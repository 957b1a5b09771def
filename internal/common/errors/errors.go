// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeParseError      ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidBehavior ErrorCode = "INVALID_BEHAVIOR"

	ErrCodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeCatalogQueryFailed ErrorCode = "CATALOG_QUERY_FAILED"
	ErrCodeSearchQueryFailed  ErrorCode = "SEARCH_QUERY_FAILED"

	ErrCodeProfileStoreFailed ErrorCode = "PROFILE_STORE_FAILED"
	ErrCodePublishFailed      ErrorCode = "PUBLISH_FAILED"
	ErrCodeScoringTimeout     ErrorCode = "SCORING_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error's metadata and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// BPMNError is the shape thrown back to the process engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false)
}

func NewInvalidBehaviorError(behavior string) *StandardError {
	return newError(ErrCodeInvalidBehavior, "Unsupported behavior type", fmt.Sprintf("behavior: %s", behavior), false)
}

func NewProductNotFoundError(productID string) *StandardError {
	return newError(ErrCodeProductNotFound, "Product not found in catalog", fmt.Sprintf("productId: %s", productID), false)
}

func NewCatalogQueryFailedError(err error) *StandardError {
	return newError(ErrCodeCatalogQueryFailed, "Catalog query failed", err.Error(), true)
}

func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Candidate search failed", err.Error(), true)
}

func NewProfileStoreFailedError(userID string, err error) *StandardError {
	return newError(ErrCodeProfileStoreFailed, "Profile store operation failed",
		fmt.Sprintf("userId: %s, error: %s", userID, err.Error()), true)
}

func NewPublishFailedError(topic string, err error) *StandardError {
	return newError(ErrCodePublishFailed, "Snapshot publish failed",
		fmt.Sprintf("topic: %s, error: %s", topic, err.Error()), true)
}

func NewScoringTimeoutError(taskType string) *StandardError {
	return newError(ErrCodeScoringTimeout, "Ranking job timed out", fmt.Sprintf("taskType: %s", taskType), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogQueryFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeProfileStoreFailed:
		return 3

	case ErrCodeScoringTimeout,
		ErrCodePublishFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"errorCategory":     GetErrorCategory(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "PARSE") || strings.HasPrefix(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "PRODUCT"):
		return "CATALOG"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "PUBLISH"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}

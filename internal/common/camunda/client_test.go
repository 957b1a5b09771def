// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestWithRetry_RecoversFromTransientErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	}, "complete-job")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, func(context.Context) error {
		calls++
		return errors.New("rpc error: code = NotFound desc = job not found")
	}, "complete-job")

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, func(context.Context) error {
		calls++
		return errors.New("context deadline exceeded")
	}, "complete-job")

	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, err, ErrGatewayTimeout)
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := &RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}

	err := withRetry(ctx, slow, func(context.Context) error {
		return errors.New("connection reset by peer")
	}, "complete-job")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("broken pipe")))
	assert.True(t, isRetryableZeebeError(errors.New("code = RESOURCE_EXHAUSTED")))
	assert.False(t, isRetryableZeebeError(errors.New("invalid argument")))
}

func TestDecodeVariables(t *testing.T) {
	schema := validation.MustCompile(`{"type":"object","required":["userId"],"properties":{"userId":{"type":"string"}}}`)

	var dst struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, DecodeVariables(`{"userId":"u1"}`, schema, &dst))
	assert.Equal(t, "u1", dst.UserID)

	err := DecodeVariables(`{}`, schema, &dst)
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)

	err = DecodeVariables(`{"userId":`, schema, &dst)
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)

	err = DecodeVariables(`{"userId":5}`, nil, &dst)
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)
}

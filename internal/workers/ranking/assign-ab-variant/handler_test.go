// internal/workers/ranking/assign-ab-variant/handler_test.go
package assignabvariant

import (
	"context"
	"testing"
	"time"

	"product-ranking/internal/common/camunda"
	apperrors "product-ranking/internal/common/errors"
	"product-ranking/internal/common/logger"
	"product-ranking/internal/common/metrics"
	"product-ranking/internal/ranking"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		userID, testName, want string
	}{
		// 117*31 + 49 = 3676
		{"u", "1", ranking.VariantA},
		// 97*31 + 98 = 3105
		{"a", "b", ranking.VariantB},
	}

	for _, tt := range tests {
		out, err := h.Execute(context.Background(), &Input{UserID: tt.userID, TestName: tt.testName})
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Variant)
		assert.Equal(t, tt.userID, out.UserID)
		assert.Equal(t, tt.testName, out.TestName)
	}
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	h := newHandler(t)
	first, err := h.Execute(context.Background(), &Input{UserID: "user-42", TestName: "checkout-v2"})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		out, err := h.Execute(context.Background(), &Input{UserID: "user-42", TestName: "checkout-v2"})
		require.NoError(t, err)
		assert.Equal(t, first.Variant, out.Variant)
	}
}

func TestHandler_Execute_CountsAssignments(t *testing.T) {
	h := newHandler(t)
	variant := ranking.GetABTestVariant("u", "metrics-test")
	counter := metrics.ABAssignments.WithLabelValues("metrics-test", variant)
	before := testutil.ToFloat64(counter)

	_, err := h.Execute(context.Background(), &Input{UserID: "u", TestName: "metrics-test"})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandler_Execute_RequiresFields(t *testing.T) {
	h := newHandler(t)
	_, err := h.Execute(context.Background(), &Input{UserID: "u1"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
}

func TestInputSchema(t *testing.T) {
	var input Input
	require.NoError(t, camunda.DecodeVariables(`{"userId":"u1","testName":"t"}`, inputSchema, &input))

	err := camunda.DecodeVariables(`{"userId":"u1"}`, inputSchema, &input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.Normalize(err).Code)
}

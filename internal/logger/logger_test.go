package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("storefront", &buf)

	log.Info("cart_updated", "Cart updated", "req-1", map[string]interface{}{"lines": 2})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Cart updated", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "storefront", record["service"])
	assert.Equal(t, "cart_updated", record["action"])
	assert.Equal(t, "req-1", record["request_id"])

	details, ok := record["details"].(map[string]any)
	require.True(t, ok, "expected details group")
	assert.EqualValues(t, 2, details["lines"])
}

func TestLoggerErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("storefront", &buf)

	log.Error("profile_write_failed", "Profile write failed", "req-2", errors.New("permission denied"), nil)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])

	errGroup, ok := record["error"].(map[string]any)
	require.True(t, ok, "expected error group")
	assert.Equal(t, "permission denied", errGroup["msg"])
}

func TestLoggerErrorWithoutCause(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("storefront", &buf)

	log.Error("validation_failed", "worker-name is required", "", nil, nil)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, hasErr := record["error"]
	assert.False(t, hasErr)
}

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateRequestID())
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))

	generated := RequestIDFromContext(context.Background())
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

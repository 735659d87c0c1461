package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	l := New("gateway", "debug", "json")
	l.SetOutput(buf)
	return l, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestWithContextAddsTraceAndOperation(t *testing.T) {
	l, buf := newBufferLogger(t)

	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithOperation(ctx, "postCompany")
	l.WithContext(ctx).Info("hello")

	line := decodeLine(t, buf)
	assert.Equal(t, "gateway", line["service"])
	assert.Equal(t, "trace-1", line["trace_id"])
	assert.Equal(t, "postCompany", line["operation"])
	assert.Equal(t, "hello", line["msg"])
}

func TestLogRequestLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "info"},
		{404, "warning"},
		{500, "error"},
	}

	for _, tt := range tests {
		l, buf := newBufferLogger(t)
		l.LogRequest(context.Background(), "POST", "/main", tt.status, 15*time.Millisecond)

		line := decodeLine(t, buf)
		assert.Equal(t, tt.level, line["level"], "status %d", tt.status)
		assert.EqualValues(t, tt.status, line["status"])
		assert.EqualValues(t, 15, line["duration_ms"])
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l := New("gateway", "loud", "text")
	assert.Equal(t, "info", l.GetLevel().String())
}

func TestGetTraceIDMissing(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.NotEmpty(t, NewTraceID())
}

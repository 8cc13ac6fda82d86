package logger

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/util"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{" WARN ", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	ctx := util.WithRequestID(context.Background(), "req-42")
	l.WithFields(NewField("pair", "BTC-USD")).InfoContext(ctx, "Order placed", Field{Key: "orderID", Value: "01H"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Order placed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "BTC-USD", fields["pair"])
	assert.Equal(t, "01H", fields["orderID"])
	assert.Equal(t, "req-42", fields["request_id"])
}

func TestLoggerErrorUsesTracerStack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core))

	l.Error(errors.NewTracer("publish_error").Wrap(stderrors.New("boom")), NewField("topic", "trades"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "publish_error: boom", entry.Message)
	assert.Contains(t, entry.Stack, "TestLoggerErrorUsesTracerStack")
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(WithLoggingLevel(DebugLevel), WithOutputPaths([]string{"stderr"}))
	require.NoError(t, err)
	assert.True(t, l.GetZap().Core().Enabled(zapcore.DebugLevel))

	NewNopLogger().Info("discarded")
}

package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips through the context", func(t *testing.T) {
		log := zap.NewNop()
		assert.Equal(t, log, FromContext(WithContext(ctx, log)))
	})

	t.Run("missing logger degrades to a nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(ctx))
	})

	t.Run("ids default to empty", func(t *testing.T) {
		assert.Empty(t, GetRequestID(ctx))
		assert.Empty(t, GetUserID(ctx))
	})

	t.Run("tags accumulate", func(t *testing.T) {
		ctx, log := WithRequestID(ctx, zap.NewNop(), "req-9")
		ctx, log = WithUserID(ctx, log, "cashier-2")

		assert.NotNil(t, log)
		assert.Equal(t, "req-9", GetRequestID(ctx))
		assert.Equal(t, "cashier-2", GetUserID(ctx))
	})
}

func TestTaggedLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, zap.New(core), "req-abc")
	ctx, _ = WithUserID(ctx, FromContext(ctx), "cashier-7")

	FromContext(ctx).Info("register opened")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-abc"`)
	assert.Contains(t, out, `"user_id":"cashier-7"`)
}

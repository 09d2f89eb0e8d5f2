package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) {
		return "SELECT * FROM documents WHERE status = ?", 3
	}, err)
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)

	t.Run("LogMode clones", func(t *testing.T) {
		clone := gl.LogMode(gormlogger.Warn)
		assert.Equal(t, gormlogger.Info, gl.logLevel)
		assert.Equal(t, gormlogger.Warn, clone.(*GormLogger).logLevel)
	})
}

func TestGormLoggerLeveledMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("info formats its arguments", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Info(ctx, "migrated %d tables", 7)
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "migrated 7 tables")
	})

	t.Run("silent suppresses everything", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)
		gl.Info(ctx, "migrated")
		gl.Warn(ctx, "slow")
		gl.Error(ctx, "broken")
		traceQuery(gl, ctx, time.Now(), nil)
		assert.Empty(t, recorded.All())
	})

	t.Run("warn and error carry their level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Warn(ctx, "pool nearly exhausted")
		gl.Error(ctx, "connection refused")
		logs := recorded.All()
		require.Len(t, logs, 2)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
	})
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("failed query logs an error", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, ctx, time.Now(), errors.New("relation does not exist"))
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Error", logs[0].Message)
	})

	t.Run("missing rows are not errors", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		traceQuery(gl, ctx, time.Now(), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow query warns past the threshold", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		traceQuery(gl, ctx, time.Now().Add(-time.Second), nil)
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("ordinary query logs at debug", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		traceQuery(gl, ctx, time.Now(), nil)
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Query", logs[0].Message)
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	})

	t.Run("request id from context rides along", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-41")
		traceQuery(gl, ctx, time.Now(), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		found := false
		for _, field := range logs[0].Context {
			if field.Key == "request_id" {
				found = true
				assert.Equal(t, "req-41", field.String)
			}
		}
		assert.True(t, found)
	})
}

func TestMapGormLogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapGormLogLevel(tc.level), tc.level)
	}
}

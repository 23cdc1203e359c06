package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func query() (string, int64) {
	return "SELECT * FROM penduduk WHERE nik = '3201010101010001'", 1
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		wantMsg string
		wantLvl zapcore.Level
	}{
		{"error", gormlogger.Warn, 0, errors.New("db down"), "SQL error", zapcore.ErrorLevel},
		{"not found logged as a plain query", gormlogger.Info, 0, gormlogger.ErrRecordNotFound, "SQL", zapcore.DebugLevel},
		{"slow query", gormlogger.Warn, time.Second, nil, "Slow SQL", zapcore.WarnLevel},
		{"normal query at info", gormlogger.Info, 0, nil, "SQL", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			l := NewGormLogger(zap.New(core), tt.level, WithSlowThreshold(100*time.Millisecond))

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), query, tt.err)

			entries := recorded.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tt.wantMsg, entries[0].Message)
				assert.Equal(t, tt.wantLvl, entries[0].Level)
			}
		})
	}
}

func TestGormLogger_SilentAndWarnSkipNormalQueries(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)
	l.Trace(context.Background(), time.Now(), query, nil)
	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), query, errors.New("x"))
	assert.Zero(t, recorded.Len())
}

func TestGormLogger_FullSQL(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithTenantID(context.Background(), "tenant-1")

	NewGormLogger(zap.New(core), gormlogger.Info).Trace(ctx, time.Now(), query, nil)
	NewGormLogger(zap.New(core), gormlogger.Info, WithFullSQL(true)).Trace(ctx, time.Now(), query, nil)

	entries := recorded.All()
	if assert.Len(t, entries, 2) {
		assert.NotContains(t, entries[0].ContextMap(), "sql")
		assert.Equal(t, "tenant-1", entries[0].ContextMap()["tenant_id"])
		assert.Contains(t, entries[1].ContextMap()["sql"], "FROM penduduk")
	}
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}

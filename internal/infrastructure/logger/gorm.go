package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts zap to gorm's logger interface
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logFullSQL    bool
}

// GormOption configures a GormLogger
type GormOption func(*GormLogger)

// WithSlowThreshold sets the duration above which queries are logged as slow. Zero disables it.
func WithSlowThreshold(d time.Duration) GormOption {
	return func(l *GormLogger) { l.slowThreshold = d }
}

// WithFullSQL logs statements with their bound values instead of placeholders
func WithFullSQL(enabled bool) GormOption {
	return func(l *GormLogger) { l.logFullSQL = enabled }
}

// NewGormLogger creates a GORM logger backed by zap. Record-not-found is never logged
// because repositories translate it into a domain error.
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormOption) *GormLogger {
	l := &GormLogger{
		logger:        base.Named("gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger.With(Fields(ctx)...).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.With(Fields(ctx)...).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger.With(Fields(ctx)...).Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.logger.Error("SQL error", append(l.queryFields(ctx, elapsed, fc), zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		l.logger.Warn("Slow SQL", append(l.queryFields(ctx, elapsed, fc), zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormlogger.Info:
		l.logger.Debug("SQL", l.queryFields(ctx, elapsed, fc)...)
	}
}

func (l *GormLogger) queryFields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	fields := append(Fields(ctx),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	)
	// gorm inlines bound values into sql, so it may carry NIKs and names
	if l.logFullSQL {
		fields = append(fields, zap.String("sql", sql))
	}
	return fields
}

// MapGormLogLevel maps a config level name to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

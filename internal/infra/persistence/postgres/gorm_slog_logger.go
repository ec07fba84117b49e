package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"accounts/config"
	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	redactedParam      = "[REDACTED]"
)

var _ gorm.ParamsFilter = (*sqlLogger)(nil)

// bcryptPrefixes identify stored password hashes among statement parameters.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// sqlLogger routes gorm output through slog. Statements are logged with the request-scoped
// logger when one is on the context, and password hashes never reach the log.
type sqlLogger struct {
	base  *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newGormSlogLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &sqlLogger{base: base, level: level, slow: slowQueryThreshold}
}

func (l *sqlLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *sqlLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args...)
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args...)
}

func (l *sqlLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args...)
}

func (l *sqlLogger) printf(ctx context.Context, enabled logger.LogLevel, level slog.Level, msg string, args ...any) {
	if l.base == nil || l.level < enabled {
		return
	}

	l.logger(ctx).LogAttrs(ctx, level, "gorm", slog.String("message", fmt.Sprintf(msg, args...)))
}

// Trace logs failed statements, slow statements and, at info level, every statement.
// Missing rows are an expected outcome of FindByID and FindByEmail and are not logged.
func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.base == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		attrs := append(statementAttrs(fc, elapsed), slog.String("error", err.Error()))
		l.logger(ctx).LogAttrs(ctx, slog.LevelError, "SQL statement failed", attrs...)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		attrs := append(statementAttrs(fc, elapsed), slog.Duration("threshold", l.slow))
		l.logger(ctx).LogAttrs(ctx, slog.LevelWarn, "Slow SQL statement", attrs...)
	case l.level >= logger.Info:
		l.logger(ctx).LogAttrs(ctx, slog.LevelDebug, "SQL statement", statementAttrs(fc, elapsed)...)
	}
}

// ParamsFilter is consulted by gorm before it renders the SQL handed to Trace.
func (l *sqlLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	filtered := make([]any, len(params))
	for i, param := range params {
		filtered[i] = redactParam(param)
	}

	return sql, filtered
}

func (l *sqlLogger) logger(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.base)
}

func redactParam(param any) any {
	s, ok := param.(string)
	if !ok {
		return param
	}
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(s, prefix) {
			return redactedParam
		}
	}

	return param
}

func statementAttrs(fc func() (string, int64), elapsed time.Duration) []slog.Attr {
	sql, rows := fc()

	return []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
}

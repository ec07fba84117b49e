package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"accounts/config"
	deliverycontext "accounts/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHealthChecker_Ping(t *testing.T) {
	db := newTestDB(t)
	checker := NewHealthChecker(db)

	require.NoError(t, checker.Ping(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, checker.Ping(context.Background()))
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, AutoMigrate(context.Background(), db))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasColumn("users", "user_id"))
	assert.True(t, db.Migrator().HasColumn("users", "password"))
}

func TestIsUniqueConstraintViolation(t *testing.T) {
	assert.True(t, isUniqueConstraintViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintViolation(errors.Wrap(gorm.ErrDuplicatedKey, "insert")))
	assert.True(t, isUniqueConstraintViolation(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueConstraintViolation(errors.New("connection refused")))
}

func TestIsNotNullConstraintViolation(t *testing.T) {
	assert.True(t, isNotNullConstraintViolation(errors.New(`ERROR: null value in column "email" violates not-null constraint (SQLSTATE 23502)`)))
	assert.False(t, isNotNullConstraintViolation(errors.New("timeout")))
}

func TestSQLLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	quiet := newGormSlogLogger(base, &config.Config{})
	quiet.Trace(ctx, time.Now(), sqlFn, nil)
	assert.Empty(t, buf.String())

	quiet.Trace(ctx, time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	quiet.Trace(ctx, time.Now(), sqlFn, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "SQL statement failed")
	buf.Reset()

	quiet.Trace(ctx, time.Now().Add(-time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), "Slow SQL statement")
	buf.Reset()

	debugCfg := &config.Config{}
	debugCfg.Env.Debug = true
	newGormSlogLogger(base, debugCfg).Trace(ctx, time.Now(), sqlFn, nil)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	buf.Reset()

	quiet.LogMode(logger.Silent).Trace(ctx, time.Now(), sqlFn, errors.New("ignored"))
	assert.Empty(t, buf.String())
}

func TestSQLLogger_UsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewJSONHandler(&base, nil)), &config.Config{})
	ctx := deliverycontext.WithLogger(context.Background(),
		slog.New(slog.NewJSONHandler(&scoped, nil)).With(slog.String("request_id", "req-1")))

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), `"request_id":"req-1"`)
}

func TestSQLLogger_ParamsFilter(t *testing.T) {
	filter, ok := newGormSlogLogger(slog.Default(), nil).(gorm.ParamsFilter)
	require.True(t, ok)

	sql, params := filter.ParamsFilter(context.Background(), "INSERT INTO users VALUES (?,?,?)",
		"ada", "$2a$10$abcdefghijklmnopqrstuu", 7)

	assert.Equal(t, "INSERT INTO users VALUES (?,?,?)", sql)
	assert.Equal(t, []any{"ada", redactedParam, 7}, params)
}

// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/config"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// QueryLogger routes GORM output through slog so query logs carry request ids.
type QueryLogger struct {
	log           *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a QueryLogger that reports errors and queries slower than 200ms.
func NewGormLogger(l *slog.Logger) *QueryLogger {
	return &QueryLogger{log: l, level: logger.Warn, slowThreshold: 200 * time.Millisecond}
}

func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *QueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data...)
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data...)
}

func (l *QueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data...)
}

func (l *QueryLogger) printf(ctx context.Context, min logger.LogLevel, lvl slog.Level, msg string, data ...interface{}) {
	if l.level >= min {
		l.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
	}
}

// Trace reports a finished statement. Missing rows are not errors.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		lvl, msg = slog.LevelError, "query failed"
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "slow query"
	case l.level >= logger.Info:
		lvl, msg = slog.LevelInfo, "query"
	default:
		return
	}

	sql, rows := fc()
	attrs := []any{"sql", sql, "rows", rows, "elapsed", elapsed}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	l.log.Log(ctx, lvl, msg, attrs...)
}

// Connect opens the PostgreSQL connection described by cfg and migrates outside production.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogger(observability.Logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	observability.Logger.Info("Database connected successfully")

	if !cfg.IsProduction() {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		observability.Logger.Info("Database migration completed")
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Migrate creates or updates every persistent table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

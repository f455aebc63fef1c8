package database

import (
	"context"
	"fmt"
	"time"

	"go-rbac-api/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config is the postgres part of the service configuration.
type Config interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	EnableLog() bool
	LogLevel() string
}

var gormLogLevels = map[string]logger.LogLevel{
	"info":   logger.Info,
	"warn":   logger.Warn,
	"error":  logger.Error,
	"silent": logger.Silent,
}

func gormLogLevel(cfg Config) logger.LogLevel {
	if !cfg.EnableLog() {
		return logger.Silent
	}
	if level, ok := gormLogLevels[cfg.LogLevel()]; ok {
		return level
	}
	return logger.Warn
}

// GormConfig translates driver errors and never logs bound values, which
// include password hashes and refresh tokens.
func GormConfig(l log.Logger, cfg Config) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(l, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	}
}

// Connect opens the pool, checks the server answers and migrates the RBAC tables.
func Connect(ctx context.Context, cfg Config, l log.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host(), cfg.User(), cfg.Password(), cfg.Name(), cfg.Port(), cfg.SSLMode())

	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), GormConfig(l, cfg))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns())
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns())
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := MigrateDB(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

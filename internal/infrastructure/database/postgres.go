package database

import (
	"fmt"
	"time"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/you/aarogyam/internal/infrastructure/repositories"
)

// zapWriter routes gorm's logger output through zap.
type zapWriter struct{ s *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...interface{}) { w.s.Infof(format, args...) }

func gormConfig(log *zap.Logger) *gorm.Config {
	level := logger.Warn
	if log == nil {
		log = zap.NewNop()
	}
	if log.Core().Enabled(zap.DebugLevel) {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(zapWriter{log.Named("gorm").Sugar()}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	}
}

// Open creates a Postgres connection with production-ready settings
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// OpenSQLite opens a SQLite database on a single connection, which keeps
// ":memory:" databases shared across queries. Used for local runs and tests.
func OpenSQLite(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate creates the identity, resource and Casbin policy tables
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&repositories.DBIdentity{},
		&repositories.DBAppointment{},
		&repositories.DBMedicalReport{},
		&repositories.DBContactMessage{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// The adapter creates casbin_rule on construction.
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}

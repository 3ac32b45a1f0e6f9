package db

import (
	"fmt"
	"runtime"
	"time"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/db/models"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MakeDB(cfg *config.Config) (db *gorm.DB, err error) {
	switch cfg.Persistence.Database.Driver {
	case config.DatabaseDriverPostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d %s",
			cfg.Persistence.Database.Host,
			cfg.Persistence.Database.Username,
			cfg.Persistence.Database.Password,
			cfg.Persistence.Database.Database,
			cfg.Persistence.Database.Port,
			cfg.Persistence.Database.ExtraParameters)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(cfg.Persistence.Database.Database+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"), &gorm.Config{})
	}
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.HTTP.Tracing.Enabled {
		if err = db.Use(otelgorm.NewPlugin()); err != nil {
			return db, fmt.Errorf("failed to trace database: %w", err)
		}
	}

	err = db.AutoMigrate(&models.SavedLocation{})
	if err != nil {
		return db, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return db, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxIdleConns(runtime.GOMAXPROCS(0))
	const connsPerCPU = 10
	sqlDB.SetMaxOpenConns(runtime.GOMAXPROCS(0) * connsPerCPU)
	const maxIdleTime = 10 * time.Minute
	sqlDB.SetConnMaxIdleTime(maxIdleTime)

	return
}

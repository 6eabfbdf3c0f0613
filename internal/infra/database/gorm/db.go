package gorm

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/pkg/resource"
)

// DSN builds the Postgres connection string from app.db.* properties.
func DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s search_path=%s",
		resource.GetString("app.db.host"),
		resource.GetString("app.db.username"),
		resource.GetString("app.db.password"),
		resource.GetString("app.db.database"),
		resource.GetString("app.db.port"),
		resource.GetStringOrDefault("app.db.ssl-mode", "disable"),
		resource.GetString("app.db.schema"),
	)
}

// Open connects to Postgres and sizes the connection pool.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(resource.GetIntOrDefault("app.db.max-open-conns", 20))
	sqlDB.SetMaxIdleConns(resource.GetIntOrDefault("app.db.max-idle-conns", 5))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

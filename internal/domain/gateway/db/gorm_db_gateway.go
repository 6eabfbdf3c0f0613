package db

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"todo-api/internal/domain/model"
)

type GormHealthDBGateway struct {
	DB *gorm.DB
}

var _ HealthDBGateway = (*GormHealthDBGateway)(nil)

func NewGormHealthDBGateway(db *gorm.DB) *GormHealthDBGateway {
	return &GormHealthDBGateway{DB: db}
}

func (gateway *GormHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	sqlDB, err := gateway.DB.DB()
	if err != nil {
		return model.DownComponent(err)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		return model.DownComponent(err)
	}

	stats := sqlDB.Stats()
	return model.UpComponent(map[string]string{
		"driver":           "postgres",
		"open_connections": strconv.Itoa(stats.OpenConnections),
		"in_use":           strconv.Itoa(stats.InUse),
	})
}

// MemoryHealthDBGateway reports the in-memory store, which is always reachable.
type MemoryHealthDBGateway struct{}

var _ HealthDBGateway = MemoryHealthDBGateway{}

func (MemoryHealthDBGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.UpComponent(map[string]string{"driver": "memory"})
}

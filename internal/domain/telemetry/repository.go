package telemetry

import (
	"context"
)

// Repository пишет замеры и метаданные фотографий. Лента изменений
// для синхронизации пополняется хранилищем в той же транзакции.
type Repository interface {
	CreateReading(ctx context.Context, r *LightReading) error
	GetReading(ctx context.Context, userID int, id string) (*LightReading, error)
	ListReadings(ctx context.Context, userID int, q ReadingQuery) ([]LightReading, error)

	CreatePhoto(ctx context.Context, p *GrowthPhoto) error
	GetPhoto(ctx context.Context, userID int, id string) (*GrowthPhoto, error)
	ListPhotos(ctx context.Context, userID int, q ReadingQuery) ([]GrowthPhoto, error)
}

// ObjectStore — хранилище байтов фотографий (метаданные остаются в БД)
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

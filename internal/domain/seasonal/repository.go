package seasonal

import (
	"context"
	"time"

	"leafwise/internal/domain/plant"
)

type Repository interface {
	// Cached возвращает ErrNotFound, если действующего прогноза нет
	Cached(ctx context.Context, userID, plantID int, season Season) (*Forecast, error)
	Save(ctx context.Context, f *Forecast) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Forecaster — генеративная модель сезонных рекомендаций
type Forecaster interface {
	ForecastCare(ctx context.Context, p *plant.Plant, season Season) (*Forecast, error)
	ModelName() string
}

// PlantSource — доступ к карточке растения без зависимости от его сервиса
type PlantSource interface {
	Get(ctx context.Context, userID, plantID int) (*plant.Plant, error)
}

// LastLux — последний замер освещенности для наложения AR-подсказок
type LastLux interface {
	LatestLux(ctx context.Context, userID, plantID int) (float64, bool, error)
}

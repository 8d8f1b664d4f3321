package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/seasonal"
)

type SeasonalRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSeasonalRepository(db *Storage, log *slog.Logger) *SeasonalRepository {
	return &SeasonalRepository{
		db:  db,
		log: log.With(slog.String("component", "seasonal_repository")),
	}
}

func (r *SeasonalRepository) Cached(ctx context.Context, userID, plantID int, season seasonal.Season) (*seasonal.Forecast, error) {
	const query = `
		SELECT id, user_id, plant_id, season, hemisphere, watering_interval_days,
		       target_lux_min, target_lux_max, recommendations, model,
		       generated_at, valid_until
		FROM seasonal_forecasts
		WHERE user_id = $1 AND plant_id = $2 AND season = $3 AND valid_until > NOW()
		ORDER BY generated_at DESC
		LIMIT 1`

	var f seasonal.Forecast
	var recommendations []byte

	err := r.db.Pool().QueryRow(ctx, query, userID, plantID, season).Scan(
		&f.ID, &f.UserID, &f.PlantID, &f.Season, &f.Hemisphere,
		&f.WateringIntervalDays, &f.TargetLuxMin, &f.TargetLuxMax,
		&recommendations, &f.Model, &f.GeneratedAt, &f.ValidUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, seasonal.ErrNotFound
		}
		return nil, fmt.Errorf("cached forecast: %w", err)
	}

	if err := json.Unmarshal(recommendations, &f.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}

	return &f, nil
}

func (r *SeasonalRepository) Save(ctx context.Context, f *seasonal.Forecast) error {
	const query = `
		INSERT INTO seasonal_forecasts (id, user_id, plant_id, season, hemisphere,
		                                watering_interval_days, target_lux_min,
		                                target_lux_max, recommendations, model,
		                                generated_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	recommendations, err := json.Marshal(f.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = r.db.Pool().Exec(ctx, query,
		f.ID, f.UserID, f.PlantID, f.Season, f.Hemisphere,
		f.WateringIntervalDays, f.TargetLuxMin, f.TargetLuxMax,
		recommendations, f.Model, f.GeneratedAt, f.ValidUntil)
	if err != nil {
		r.log.Error("failed to save forecast",
			"plant_id", f.PlantID, "season", f.Season, "error", err)
		return fmt.Errorf("save forecast: %w", err)
	}

	return nil
}

func (r *SeasonalRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM seasonal_forecasts WHERE valid_until <= $1`

	result, err := r.db.Pool().Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired forecasts: %w", err)
	}

	return result.RowsAffected(), nil
}

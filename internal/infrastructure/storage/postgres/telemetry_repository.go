package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/sync"
	"leafwise/internal/domain/telemetry"
)

type TelemetryRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewTelemetryRepository(db *Storage, log *slog.Logger) *TelemetryRepository {
	return &TelemetryRepository{
		db:  db,
		log: log.With(slog.String("component", "telemetry_repository")),
	}
}

func (r *TelemetryRepository) CreateReading(ctx context.Context, rec *telemetry.LightReading) error {
	const query = `
		INSERT INTO light_readings (id, user_id, plant_id, lux, color_temp_k,
		                            measured_at, device_id, version, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("create reading: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, query,
		rec.ID, rec.UserID, rec.PlantID, rec.Lux, rec.ColorTempK,
		rec.MeasuredAt, rec.DeviceID, rec.Version, rec.LastModified)
	if err != nil {
		r.log.Error("failed to create reading",
			"reading_id", rec.ID, "user_id", rec.UserID, "error", err)
		return fmt.Errorf("create reading: %w", err)
	}

	// повторная доставка того же id при ретрае клиента — не ошибка
	if result.RowsAffected() == 0 {
		r.log.Debug("duplicate reading ignored", "reading_id", rec.ID)
		return nil
	}

	if err := appendChange(ctx, tx, change{
		userID:     rec.UserID,
		kind:       sync.KindLightReading,
		id:         rec.ID,
		payload:    rec,
		version:    rec.Version,
		modifiedAt: rec.LastModified,
		deviceID:   rec.DeviceID,
	}); err != nil {
		return fmt.Errorf("create reading: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *TelemetryRepository) GetReading(ctx context.Context, userID int, id string) (*telemetry.LightReading, error) {
	const query = `
		SELECT id, user_id, plant_id, lux, color_temp_k, measured_at,
		       device_id, version, last_modified, deleted_at
		FROM light_readings
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	rec, err := r.scanReading(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, telemetry.ErrNotFound
		}
		return nil, fmt.Errorf("get reading: %w", err)
	}

	return rec, nil
}

func (r *TelemetryRepository) ListReadings(ctx context.Context, userID int, q telemetry.ReadingQuery) ([]telemetry.LightReading, error) {
	query := `
		SELECT id, user_id, plant_id, lux, color_temp_k, measured_at,
		       device_id, version, last_modified, deleted_at
		FROM light_readings
		WHERE user_id = $1 AND deleted_at IS NULL`

	args := []interface{}{userID}
	argIndex := 2

	if q.PlantID > 0 {
		query += fmt.Sprintf(" AND plant_id = $%d", argIndex)
		args = append(args, q.PlantID)
		argIndex++
	}

	if !q.AfterTS.IsZero() {
		query += fmt.Sprintf(" AND (last_modified, id) > ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, q.AfterTS, q.AfterID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY last_modified, id LIMIT $%d", argIndex)
	args = append(args, q.Limit)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list readings", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	var readings []telemetry.LightReading
	for rows.Next() {
		rec, err := r.scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, *rec)
	}

	return readings, rows.Err()
}

// LatestLux — последний замер освещенности растения; используется
// сезонными AR-подсказками
func (r *TelemetryRepository) LatestLux(ctx context.Context, userID, plantID int) (float64, bool, error) {
	const query = `
		SELECT lux FROM light_readings
		WHERE user_id = $1 AND plant_id = $2 AND deleted_at IS NULL
		ORDER BY measured_at DESC
		LIMIT 1`

	var lux float64
	err := r.db.Pool().QueryRow(ctx, query, userID, plantID).Scan(&lux)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("latest lux: %w", err)
	}

	return lux, true, nil
}

func (r *TelemetryRepository) CreatePhoto(ctx context.Context, p *telemetry.GrowthPhoto) error {
	const query = `
		INSERT INTO growth_photos (id, user_id, plant_id, object_key, content_type,
		                           size_bytes, width, height, height_cm, taken_at,
		                           device_id, version, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query,
		p.ID, p.UserID, p.PlantID, p.ObjectKey, p.ContentType,
		p.SizeBytes, p.Width, p.Height, p.HeightCm, p.TakenAt,
		p.DeviceID, p.Version, p.LastModified); err != nil {
		r.log.Error("failed to create photo",
			"photo_id", p.ID, "user_id", p.UserID, "error", err)
		return fmt.Errorf("create photo: %w", err)
	}

	// в ленту идут только метаданные; байты другие устройства заберут
	// через photos/{id}/content
	if err := appendChange(ctx, tx, change{
		userID:     p.UserID,
		kind:       sync.KindGrowthPhoto,
		id:         p.ID,
		payload:    p,
		version:    p.Version,
		modifiedAt: p.LastModified,
		deviceID:   p.DeviceID,
	}); err != nil {
		return fmt.Errorf("create photo: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *TelemetryRepository) GetPhoto(ctx context.Context, userID int, id string) (*telemetry.GrowthPhoto, error) {
	const query = `
		SELECT id, user_id, plant_id, object_key, content_type, size_bytes,
		       width, height, height_cm, taken_at, device_id, version,
		       last_modified, deleted_at
		FROM growth_photos
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	p, err := r.scanPhoto(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, telemetry.ErrNotFound
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}

	return p, nil
}

func (r *TelemetryRepository) ListPhotos(ctx context.Context, userID int, q telemetry.ReadingQuery) ([]telemetry.GrowthPhoto, error) {
	query := `
		SELECT id, user_id, plant_id, object_key, content_type, size_bytes,
		       width, height, height_cm, taken_at, device_id, version,
		       last_modified, deleted_at
		FROM growth_photos
		WHERE user_id = $1 AND deleted_at IS NULL`

	args := []interface{}{userID}
	argIndex := 2

	if q.PlantID > 0 {
		query += fmt.Sprintf(" AND plant_id = $%d", argIndex)
		args = append(args, q.PlantID)
		argIndex++
	}

	if !q.AfterTS.IsZero() {
		query += fmt.Sprintf(" AND (last_modified, id) > ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, q.AfterTS, q.AfterID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY last_modified, id LIMIT $%d", argIndex)
	args = append(args, q.Limit)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list photos", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []telemetry.GrowthPhoto
	for rows.Next() {
		p, err := r.scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *p)
	}

	return photos, rows.Err()
}

// Вспомогательные методы
func (r *TelemetryRepository) scanReading(row interface {
	Scan(dest ...interface{}) error
}) (*telemetry.LightReading, error) {
	var rec telemetry.LightReading
	var colorTemp sql.NullInt64
	var deletedAt sql.NullTime

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.PlantID, &rec.Lux, &colorTemp,
		&rec.MeasuredAt, &rec.DeviceID, &rec.Version, &rec.LastModified, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if colorTemp.Valid {
		v := int(colorTemp.Int64)
		rec.ColorTempK = &v
	}
	if deletedAt.Valid {
		rec.DeletedAt = &deletedAt.Time
	}

	return &rec, nil
}

func (r *TelemetryRepository) scanPhoto(row interface {
	Scan(dest ...interface{}) error
}) (*telemetry.GrowthPhoto, error) {
	var p telemetry.GrowthPhoto
	var heightCm sql.NullFloat64
	var deletedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.UserID, &p.PlantID, &p.ObjectKey, &p.ContentType, &p.SizeBytes,
		&p.Width, &p.Height, &heightCm, &p.TakenAt, &p.DeviceID, &p.Version,
		&p.LastModified, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if heightCm.Valid {
		p.HeightCm = &heightCm.Float64
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}

	return &p, nil
}

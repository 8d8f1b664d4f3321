package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/sync"
)

type PlantRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPlantRepository(db *Storage, log *slog.Logger) *PlantRepository {
	return &PlantRepository{
		db:  db,
		log: log.With(slog.String("component", "plant_repository")),
	}
}

func (r *PlantRepository) List(ctx context.Context, userID int) ([]plant.Plant, error) {
	const query = `
		SELECT id, user_id, name, species, location, hemisphere, acquired_at,
		       notes, version, last_modified, deleted_at
		FROM plants
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY last_modified DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list plants", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	return r.scanPlants(rows)
}

func (r *PlantRepository) Get(ctx context.Context, userID, plantID int) (*plant.Plant, error) {
	const query = `
		SELECT id, user_id, name, species, location, hemisphere, acquired_at,
		       notes, version, last_modified, deleted_at
		FROM plants
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	row := r.db.Pool().QueryRow(ctx, query, plantID, userID)

	p, err := r.scanPlant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plant.ErrNotFound
		}
		r.log.Error("failed to get plant",
			"plant_id", plantID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("get plant: %w", err)
	}

	return p, nil
}

func (r *PlantRepository) Create(ctx context.Context, p *plant.Plant) (int, error) {
	const query = `
		INSERT INTO plants (user_id, name, species, location, hemisphere, acquired_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version, last_modified`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create plant: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, query,
		p.UserID, p.Name, p.Species, p.Location, p.Hemisphere, p.AcquiredAt, p.Notes,
	).Scan(&p.ID, &p.Version, &p.LastModified)

	if err != nil {
		r.log.Error("failed to create plant",
			"user_id", p.UserID, "name", p.Name, "error", err)
		return 0, fmt.Errorf("create plant: %w", err)
	}

	if err := r.appendPlantChange(ctx, tx, p, false); err != nil {
		return 0, fmt.Errorf("create plant: %w", err)
	}

	return p.ID, tx.Commit(ctx)
}

func (r *PlantRepository) Update(ctx context.Context, p *plant.Plant) error {
	const query = `
		UPDATE plants
		SET name = $1, species = $2, location = $3, hemisphere = $4,
			acquired_at = $5, notes = $6,
			version = version + 1, last_modified = NOW()
		WHERE id = $7 AND user_id = $8 AND version = $9 AND deleted_at IS NULL
		RETURNING version, last_modified`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("update plant: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, query,
		p.Name, p.Species, p.Location, p.Hemisphere, p.AcquiredAt, p.Notes,
		p.ID, p.UserID, p.Version,
	).Scan(&p.Version, &p.LastModified)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plant.ErrVersionConflict
		}
		r.log.Error("failed to update plant",
			"plant_id", p.ID, "user_id", p.UserID, "error", err)
		return fmt.Errorf("update plant: %w", err)
	}

	if err := r.appendPlantChange(ctx, tx, p, false); err != nil {
		return fmt.Errorf("update plant: %w", err)
	}

	return tx.Commit(ctx)
}

// ForceUpdate перезаписывает профиль без проверки версии; применяется
// к выигравшей стороне конфликта синхронизации
func (r *PlantRepository) ForceUpdate(ctx context.Context, p *plant.Plant) error {
	const query = `
		UPDATE plants
		SET name = $1, species = $2, location = $3, hemisphere = $4,
			acquired_at = $5, notes = $6,
			version = GREATEST(version + 1, $7), last_modified = NOW(),
			deleted_at = NULL
		WHERE id = $8 AND user_id = $9
		RETURNING version, last_modified`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("force update plant: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, query,
		p.Name, p.Species, p.Location, p.Hemisphere, p.AcquiredAt, p.Notes,
		p.Version, p.ID, p.UserID,
	).Scan(&p.Version, &p.LastModified)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plant.ErrNotFound
		}
		r.log.Error("failed to force update plant",
			"plant_id", p.ID, "user_id", p.UserID, "error", err)
		return fmt.Errorf("force update plant: %w", err)
	}

	if err := r.appendPlantChange(ctx, tx, p, false); err != nil {
		return fmt.Errorf("force update plant: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PlantRepository) SoftDelete(ctx context.Context, userID, plantID int) error {
	const query = `
		UPDATE plants
		SET deleted_at = NOW(), version = version + 1, last_modified = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING id, user_id, name, species, location, hemisphere, acquired_at,
		          notes, version, last_modified, deleted_at`

	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("soft delete plant: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := r.scanPlant(tx.QueryRow(ctx, query, plantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plant.ErrNotFound
		}
		r.log.Error("failed to soft delete plant",
			"plant_id", plantID, "user_id", userID, "error", err)
		return fmt.Errorf("soft delete plant: %w", err)
	}

	if err := r.appendPlantChange(ctx, tx, p, true); err != nil {
		return fmt.Errorf("soft delete plant: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PlantRepository) appendPlantChange(ctx context.Context, tx pgx.Tx, p *plant.Plant, deleted bool) error {
	return appendChange(ctx, tx, change{
		userID:     p.UserID,
		kind:       sync.KindPlant,
		id:         strconv.Itoa(p.ID),
		payload:    p,
		version:    p.Version,
		deleted:    deleted,
		modifiedAt: p.LastModified,
	})
}

func (r *PlantRepository) Search(ctx context.Context, userID int, criteria plant.SearchCriteria) ([]plant.Plant, error) {
	query := `
		SELECT id, user_id, name, species, location, hemisphere, acquired_at,
		       notes, version, last_modified, deleted_at
		FROM plants
		WHERE user_id = $1 AND deleted_at IS NULL`

	args := []interface{}{userID}
	argIndex := 2

	if criteria.Species != "" {
		query += fmt.Sprintf(" AND species ILIKE $%d", argIndex)
		args = append(args, "%"+criteria.Species+"%")
		argIndex++
	}

	if criteria.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argIndex)
		args = append(args, "%"+criteria.Location+"%")
		argIndex++
	}

	query += " ORDER BY last_modified DESC"

	if criteria.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, criteria.Limit)
		argIndex++

		if criteria.Offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, criteria.Offset)
		}
	}

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to search plants", "criteria", criteria, "error", err)
		return nil, fmt.Errorf("search plants: %w", err)
	}
	defer rows.Close()

	return r.scanPlants(rows)
}

// Вспомогательные методы
func (r *PlantRepository) scanPlants(rows pgx.Rows) ([]plant.Plant, error) {
	var plants []plant.Plant

	for rows.Next() {
		p, err := r.scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *p)
	}

	return plants, rows.Err()
}

func (r *PlantRepository) scanPlant(row interface {
	Scan(dest ...interface{}) error
}) (*plant.Plant, error) {
	var p plant.Plant
	var acquiredAt, deletedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Species, &p.Location, &p.Hemisphere,
		&acquiredAt, &p.Notes, &p.Version, &p.LastModified, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if acquiredAt.Valid {
		p.AcquiredAt = &acquiredAt.Time
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}

	return &p, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/plantid"
)

type PlantIDRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPlantIDRepository(db *Storage, log *slog.Logger) *PlantIDRepository {
	return &PlantIDRepository{
		db:  db,
		log: log.With(slog.String("component", "plantid_repository")),
	}
}

func (r *PlantIDRepository) Save(ctx context.Context, ident *plantid.Identification) error {
	const query = `
		INSERT INTO identifications (id, user_id, plant_id, candidates, model, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	candidates, err := json.Marshal(ident.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	_, err = r.db.Pool().Exec(ctx, query,
		ident.ID, ident.UserID, ident.PlantID, candidates, ident.Model, ident.CreatedAt)
	if err != nil {
		r.log.Error("failed to save identification",
			"identification_id", ident.ID, "user_id", ident.UserID, "error", err)
		return fmt.Errorf("save identification: %w", err)
	}

	return nil
}

func (r *PlantIDRepository) History(ctx context.Context, userID int, limit int) ([]plantid.Identification, error) {
	const query = `
		SELECT id, user_id, plant_id, candidates, model, created_at
		FROM identifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("identification history: %w", err)
	}
	defer rows.Close()

	var items []plantid.Identification
	for rows.Next() {
		ident, err := r.scanIdentification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ident)
	}

	return items, rows.Err()
}

func (r *PlantIDRepository) Get(ctx context.Context, userID int, id string) (*plantid.Identification, error) {
	const query = `
		SELECT id, user_id, plant_id, candidates, model, created_at
		FROM identifications
		WHERE id = $1 AND user_id = $2`

	ident, err := r.scanIdentification(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, plantid.ErrNotFound
		}
		return nil, fmt.Errorf("get identification: %w", err)
	}

	return ident, nil
}

func (r *PlantIDRepository) scanIdentification(row interface {
	Scan(dest ...interface{}) error
}) (*plantid.Identification, error) {
	var ident plantid.Identification
	var candidates []byte

	err := row.Scan(&ident.ID, &ident.UserID, &ident.PlantID,
		&candidates, &ident.Model, &ident.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(candidates, &ident.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}

	return &ident, nil
}

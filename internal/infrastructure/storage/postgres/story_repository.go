package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/story"
)

type StoryRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewStoryRepository(db *Storage, log *slog.Logger) *StoryRepository {
	return &StoryRepository{
		db:  db,
		log: log.With(slog.String("component", "story_repository")),
	}
}

func (r *StoryRepository) Create(ctx context.Context, s *story.Story) error {
	const query = `
		INSERT INTO stories (id, user_id, plant_id, caption, photo_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Pool().Exec(ctx, query,
		s.ID, s.UserID, s.PlantID, s.Caption, s.PhotoID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		r.log.Error("failed to create story",
			"story_id", s.ID, "user_id", s.UserID, "error", err)
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

func (r *StoryRepository) Get(ctx context.Context, id string) (*story.Story, error) {
	const query = `
		SELECT id, user_id, plant_id, caption, photo_id, created_at,
		       expires_at, view_count, deleted_at
		FROM stories
		WHERE id = $1 AND deleted_at IS NULL`

	s, err := r.scanStory(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, story.ErrNotFound
		}
		return nil, fmt.Errorf("get story: %w", err)
	}

	return s, nil
}

func (r *StoryRepository) Feed(ctx context.Context, now time.Time, afterCreated time.Time, afterID string, limit int) ([]story.Story, error) {
	// Лента отдает только живые истории; курсор движется назад по created_at
	query := `
		SELECT id, user_id, plant_id, caption, photo_id, created_at,
		       expires_at, view_count, deleted_at
		FROM stories
		WHERE expires_at > $1 AND deleted_at IS NULL`

	args := []interface{}{now}
	argIndex := 2

	if !afterCreated.IsZero() {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, afterCreated, afterID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit)

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to load story feed", "error", err)
		return nil, fmt.Errorf("story feed: %w", err)
	}
	defer rows.Close()

	var stories []story.Story
	for rows.Next() {
		s, err := r.scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *s)
	}

	return stories, rows.Err()
}

func (r *StoryRepository) IncrementViews(ctx context.Context, id string) error {
	const query = `UPDATE stories SET view_count = view_count + 1 WHERE id = $1`

	_, err := r.db.Pool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *StoryRepository) Delete(ctx context.Context, userID int, id string) error {
	const query = `
		UPDATE stories SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	result, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return story.ErrNotFound
	}

	return nil
}

func (r *StoryRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM stories WHERE expires_at <= $1`

	result, err := r.db.Pool().Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("purge expired stories: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *StoryRepository) scanStory(row interface {
	Scan(dest ...interface{}) error
}) (*story.Story, error) {
	var s story.Story
	var deletedAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.UserID, &s.PlantID, &s.Caption, &s.PhotoID,
		&s.CreatedAt, &s.ExpiresAt, &s.ViewCount, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		s.DeletedAt = &deletedAt.Time
	}

	return &s, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/user"
)

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With(slog.String("component", "user_repository")),
	}
}

func (r *UserRepository) Create(ctx context.Context, login, passwordHash, displayName string) (int, error) {
	const query = `
		INSERT INTO users (login, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := r.db.Pool().QueryRow(ctx, query, login, passwordHash, displayName).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, user.ErrLoginTaken
		}
		r.log.Error("failed to create user", "login", login, "error", err)
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	const query = `
		SELECT id, login, password_hash, display_name, created_at
		FROM users
		WHERE login = $1`

	var u user.User
	err := r.db.Pool().QueryRow(ctx, query, login).
		Scan(&u.ID, &u.Login, &u.Password, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		r.log.Error("failed to find user", "login", login, "error", err)
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}

package story

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s *Story) error
	Get(ctx context.Context, id string) (*Story, error)
	// Feed отдает живые истории, новые сперва; afterCreated/afterID —
	// позиция курсора
	Feed(ctx context.Context, now time.Time, afterCreated time.Time, afterID string, limit int) ([]Story, error)
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, userID int, id string) error
	// PurgeExpired удаляет истории с истекшим сроком; возвращает число
	// удаленных строк
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

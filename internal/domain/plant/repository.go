package plant

import (
	"context"
)

type Repository interface {
	List(ctx context.Context, userID int) ([]Plant, error)
	Get(ctx context.Context, userID, plantID int) (*Plant, error)
	Create(ctx context.Context, p *Plant) (int, error)
	Update(ctx context.Context, p *Plant) error
	// ForceUpdate перезаписывает профиль без проверки версии; нужен
	// применению выигравшей стороны конфликта синхронизации
	ForceUpdate(ctx context.Context, p *Plant) error
	SoftDelete(ctx context.Context, userID, plantID int) error
	Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Plant, error)
}

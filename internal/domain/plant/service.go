package plant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context, userID int) (ListResponse, error)
	Create(ctx context.Context, userID int, req CreateRequest) (int, error)
	Find(ctx context.Context, userID, plantID int) (*Plant, error)
	Update(ctx context.Context, userID, plantID int, req UpdateRequest) error
	Delete(ctx context.Context, userID, plantID int) error
	Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Plant, error)
	ApplyRemote(ctx context.Context, userID, plantID int, req UpdateRequest, deleted bool) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) List(ctx context.Context, userID int) (ListResponse, error) {
	plants, err := s.repo.List(ctx, userID)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list plants: %w", err)
	}

	return ListResponse{Plants: plants, Total: len(plants)}, nil
}

func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (int, error) {
	p := &Plant{
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Species:    strings.TrimSpace(req.Species),
		Location:   req.Location,
		Hemisphere: req.Hemisphere,
		AcquiredAt: req.AcquiredAt,
		Notes:      req.Notes,
	}

	if err := s.validate(p); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("create plant: %w", err)
	}

	s.log.Info("plant created", "user_id", userID, "plant_id", id)
	return id, nil
}

func (s *Service) Find(ctx context.Context, userID, plantID int) (*Plant, error) {
	return s.repo.Get(ctx, userID, plantID)
}

func (s *Service) Update(ctx context.Context, userID, plantID int, req UpdateRequest) error {
	p := &Plant{
		ID:         plantID,
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Species:    strings.TrimSpace(req.Species),
		Location:   req.Location,
		Hemisphere: req.Hemisphere,
		AcquiredAt: req.AcquiredAt,
		Notes:      req.Notes,
		Version:    req.Version,
	}

	if err := s.validate(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, userID, plantID int) error {
	return s.repo.SoftDelete(ctx, userID, plantID)
}

// ApplyRemote применяет правку, пришедшую при синхронизации с другого
// устройства. Расхождение версий уже проверено уровнем синхронизации,
// поэтому оптимистическая блокировка здесь не действует.
func (s *Service) ApplyRemote(ctx context.Context, userID, plantID int, req UpdateRequest, deleted bool) error {
	if deleted {
		return s.repo.SoftDelete(ctx, userID, plantID)
	}

	p := &Plant{
		ID:         plantID,
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Species:    strings.TrimSpace(req.Species),
		Location:   req.Location,
		Hemisphere: req.Hemisphere,
		AcquiredAt: req.AcquiredAt,
		Notes:      req.Notes,
		Version:    req.Version,
	}

	if err := s.validate(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.repo.ForceUpdate(ctx, p)
}

func (s *Service) Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Plant, error) {
	if criteria.Limit <= 0 || criteria.Limit > 200 {
		criteria.Limit = 50
	}

	return s.repo.Search(ctx, userID, criteria)
}

func (s *Service) validate(p *Plant) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > 120 {
		return fmt.Errorf("name is too long")
	}
	if p.Hemisphere != "" && p.Hemisphere != "north" && p.Hemisphere != "south" {
		return fmt.Errorf("hemisphere must be north or south")
	}
	if p.AcquiredAt != nil && p.AcquiredAt.After(time.Now().Add(5*time.Minute)) {
		return fmt.Errorf("acquired_at is in the future")
	}
	return nil
}

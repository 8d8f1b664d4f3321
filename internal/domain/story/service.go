package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"leafwise/internal/utils/cursor"
)

const (
	// Срок жизни истории
	storyTTL = 24 * time.Hour

	maxCaptionLen = 500

	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type Servicer interface {
	Create(ctx context.Context, userID int, req CreateRequest) (*Story, error)
	View(ctx context.Context, id string) (*Story, error)
	Feed(ctx context.Context, q FeedQuery) (*FeedResponse, error)
	Delete(ctx context.Context, userID int, id string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, userID int, req CreateRequest) (*Story, error) {
	if req.PlantID <= 0 {
		return nil, fmt.Errorf("%w: plant_id required", ErrInvalidInput)
	}

	caption := strings.TrimSpace(req.Caption)
	if len([]rune(caption)) > maxCaptionLen {
		return nil, fmt.Errorf("%w: caption exceeds %d characters", ErrInvalidInput, maxCaptionLen)
	}
	if caption == "" && req.PhotoID == "" {
		return nil, fmt.Errorf("%w: story needs a caption or a photo", ErrInvalidInput)
	}

	now := time.Now().UTC()
	st := &Story{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlantID:   req.PlantID,
		Caption:   caption,
		PhotoID:   req.PhotoID,
		CreatedAt: now,
		ExpiresAt: now.Add(storyTTL),
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	return st, nil
}

// View возвращает историю и инкрементирует счетчик просмотров.
// Просмотр истекшей истории невозможен даже по прямой ссылке.
func (s *Service) View(ctx context.Context, id string) (*Story, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		// счетчик не критичен для ответа
		s.log.Warn("increment story views", slog.String("id", id), slog.Any("error", err))
	} else {
		st.ViewCount++
	}

	return st, nil
}

func (s *Service) Feed(ctx context.Context, q FeedQuery) (*FeedResponse, error) {
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultFeedLimit
	case limit > maxFeedLimit:
		limit = maxFeedLimit
	}

	afterCreated, afterID, err := cursor.Decode(q.Cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stories, err := s.repo.Feed(ctx, time.Now().UTC(), afterCreated, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("story feed: %w", err)
	}

	resp := &FeedResponse{Stories: stories}
	if len(stories) == limit {
		last := stories[len(stories)-1]
		resp.NextCursor = cursor.Encode(last.CreatedAt, last.ID)
		resp.HasMore = true
	}

	return resp, nil
}

func (s *Service) Delete(ctx context.Context, userID int, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	return nil
}

// PurgeExpired вызывается фоновой задачей ретенции
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired stories: %w", err)
	}
	if n > 0 {
		s.log.Info("purged expired stories", slog.Int64("count", n))
	}
	return n, nil
}

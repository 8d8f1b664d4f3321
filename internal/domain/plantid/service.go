package plantid

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const (
	maxImageSize = 10 << 20 // 10 MiB

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type Servicer interface {
	Identify(ctx context.Context, userID int, req IdentifyRequest) (*Identification, error)
	History(ctx context.Context, userID int, limit int) (*HistoryResponse, error)
	Get(ctx context.Context, userID int, id string) (*Identification, error)
}

type Service struct {
	repo       Repository
	identifier Identifier
	log        *slog.Logger
}

func NewService(repo Repository, identifier Identifier, log *slog.Logger) *Service {
	return &Service{repo: repo, identifier: identifier, log: log}
}

// Identify распознает вид по фотографии и сохраняет результат в истории.
// Кандидаты возвращаются по убыванию уверенности.
func (s *Service) Identify(ctx context.Context, userID int, req IdentifyRequest) (*Identification, error) {
	image, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", ErrInvalidImage, err)
	}
	if len(image) == 0 || len(image) > maxImageSize {
		return nil, fmt.Errorf("%w: size out of range", ErrInvalidImage)
	}

	mimeType := req.ContentType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	candidates, err := s.identifier.IdentifyPlant(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	// модель иногда отвечает уверенностью вне [0, 1]
	for i := range candidates {
		candidates[i].Confidence = clampConfidence(candidates[i].Confidence)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	ident := &Identification{
		ID:         uuid.NewString(),
		UserID:     userID,
		PlantID:    req.PlantID,
		Candidates: candidates,
		Model:      s.identifier.ModelName(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, ident); err != nil {
		// результат пользователю важнее истории
		s.log.Error("save identification", slog.Int("user_id", userID), slog.Any("error", err))
	}

	return ident, nil
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

func (s *Service) History(ctx context.Context, userID int, limit int) (*HistoryResponse, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	items, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("identification history: %w", err)
	}

	return &HistoryResponse{Identifications: items, Total: len(items)}, nil
}

func (s *Service) Get(ctx context.Context, userID int, id string) (*Identification, error) {
	return s.repo.Get(ctx, userID, id)
}

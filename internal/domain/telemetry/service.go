package telemetry

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"leafwise/internal/utils/cursor"
)

const (
	minColorTempK = 1000
	maxColorTempK = 20000

	// Допустимое расхождение часов клиента вперед
	maxClockSkew = 5 * time.Minute
	// Замеры старше этого порога считаются мусором
	maxReadingAge = 10 * 365 * 24 * time.Hour

	defaultPageLimit = 50
	maxPageLimit     = 200

	maxPhotoSize = 20 << 20 // 20 MiB
)

type Servicer interface {
	IngestReading(ctx context.Context, userID int, req ReadingRequest) (*LightReading, error)
	IngestBatch(ctx context.Context, userID int, req BatchRequest) (*BatchResponse, error)
	Readings(ctx context.Context, userID int, q ReadingQuery) (*ReadingsPage, error)

	UploadPhoto(ctx context.Context, userID int, req PhotoUploadRequest) (*GrowthPhoto, error)
	Photos(ctx context.Context, userID int, q ReadingQuery) (*PhotosPage, error)
	PhotoContent(ctx context.Context, userID int, id string) ([]byte, string, error)
}

type Service struct {
	repo    Repository
	objects ObjectStore
	log     *slog.Logger
}

func NewService(repo Repository, objects ObjectStore, log *slog.Logger) *Service {
	return &Service{repo: repo, objects: objects, log: log}
}

func (s *Service) IngestReading(ctx context.Context, userID int, req ReadingRequest) (*LightReading, error) {
	r, err := s.buildReading(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateReading(ctx, r); err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}

	return r, nil
}

// IngestBatch принимает пакет замеров; ошибки валидации отдельных
// элементов не отклоняют пакет целиком
func (s *Service) IngestBatch(ctx context.Context, userID int, req BatchRequest) (*BatchResponse, error) {
	resp := &BatchResponse{}

	for i, item := range req.Readings {
		r, err := s.buildReading(userID, item)
		if err == nil {
			err = s.repo.CreateReading(ctx, r)
		}
		if err != nil {
			resp.Failed = append(resp.Failed, ItemError{
				Index: i,
				ID:    item.ID,
				Error: err.Error(),
			})
			continue
		}
		resp.Accepted++
	}

	if len(resp.Failed) > 0 {
		s.log.Warn("batch ingest partially failed",
			slog.Int("accepted", resp.Accepted),
			slog.Int("failed", len(resp.Failed)),
		)
	}

	return resp, nil
}

func (s *Service) Readings(ctx context.Context, userID int, q ReadingQuery) (*ReadingsPage, error) {
	if err := prepareQuery(&q); err != nil {
		return nil, err
	}

	readings, err := s.repo.ListReadings(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	page := &ReadingsPage{Readings: readings}
	if len(readings) == q.Limit {
		last := readings[len(readings)-1]
		page.NextCursor = cursor.Encode(last.LastModified, last.ID)
		page.HasMore = true
	}

	return page, nil
}

func (s *Service) UploadPhoto(ctx context.Context, userID int, req PhotoUploadRequest) (*GrowthPhoto, error) {
	if err := validatePhoto(req); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode data: %v", ErrInvalidPhoto, err)
	}
	if len(data) == 0 || len(data) > maxPhotoSize {
		return nil, fmt.Errorf("%w: size out of range", ErrInvalidPhoto)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	p := &GrowthPhoto{
		ID:           id,
		UserID:       userID,
		PlantID:      req.PlantID,
		ObjectKey:    fmt.Sprintf("photos/%d/%d/%s", userID, req.PlantID, id),
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		Width:        req.Width,
		Height:       req.Height,
		HeightCm:     req.HeightCm,
		TakenAt:      req.TakenAt.UTC(),
		DeviceID:     req.DeviceID,
		Version:      1,
		LastModified: time.Now().UTC(),
	}

	if err := s.objects.Put(ctx, p.ObjectKey, data, contentType); err != nil {
		return nil, fmt.Errorf("store photo object: %w", err)
	}

	if err := s.repo.CreatePhoto(ctx, p); err != nil {
		// метаданные не записались — подчищаем объект
		if rmErr := s.objects.Remove(ctx, p.ObjectKey); rmErr != nil {
			s.log.Error("orphaned photo object", slog.String("key", p.ObjectKey), slog.Any("error", rmErr))
		}
		return nil, fmt.Errorf("create photo: %w", err)
	}

	return p, nil
}

func (s *Service) Photos(ctx context.Context, userID int, q ReadingQuery) (*PhotosPage, error) {
	if err := prepareQuery(&q); err != nil {
		return nil, err
	}

	photos, err := s.repo.ListPhotos(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	page := &PhotosPage{Photos: photos}
	if len(photos) == q.Limit {
		last := photos[len(photos)-1]
		page.NextCursor = cursor.Encode(last.LastModified, last.ID)
		page.HasMore = true
	}

	return page, nil
}

func (s *Service) PhotoContent(ctx context.Context, userID int, id string) ([]byte, string, error) {
	p, err := s.repo.GetPhoto(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	data, contentType, err := s.objects.Get(ctx, p.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("fetch photo object: %w", err)
	}

	return data, contentType, nil
}

func (s *Service) buildReading(userID int, req ReadingRequest) (*LightReading, error) {
	if err := validateReading(req); err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &LightReading{
		ID:           id,
		UserID:       userID,
		PlantID:      req.PlantID,
		Lux:          req.Lux,
		ColorTempK:   req.ColorTempK,
		MeasuredAt:   req.MeasuredAt.UTC(),
		DeviceID:     req.DeviceID,
		Version:      1,
		LastModified: time.Now().UTC(),
	}, nil
}

func validateReading(req ReadingRequest) error {
	if req.PlantID <= 0 {
		return fmt.Errorf("%w: plant_id required", ErrInvalidReading)
	}
	if math.IsNaN(req.Lux) || math.IsInf(req.Lux, 0) || req.Lux < 0 {
		return fmt.Errorf("%w: lux must be finite and non-negative", ErrInvalidReading)
	}
	if req.ColorTempK != nil && (*req.ColorTempK < minColorTempK || *req.ColorTempK > maxColorTempK) {
		return fmt.Errorf("%w: color_temp_k out of range [%d, %d]", ErrInvalidReading, minColorTempK, maxColorTempK)
	}

	now := time.Now()
	if req.MeasuredAt.IsZero() {
		return fmt.Errorf("%w: measured_at required", ErrInvalidReading)
	}
	if req.MeasuredAt.After(now.Add(maxClockSkew)) {
		return fmt.Errorf("%w: measured_at is in the future", ErrInvalidReading)
	}
	if req.MeasuredAt.Before(now.Add(-maxReadingAge)) {
		return fmt.Errorf("%w: measured_at is too old", ErrInvalidReading)
	}

	return nil
}

func validatePhoto(req PhotoUploadRequest) error {
	if req.PlantID <= 0 {
		return fmt.Errorf("%w: plant_id required", ErrInvalidPhoto)
	}
	if req.TakenAt.IsZero() || req.TakenAt.After(time.Now().Add(maxClockSkew)) {
		return fmt.Errorf("%w: taken_at invalid", ErrInvalidPhoto)
	}
	if req.HeightCm != nil && (*req.HeightCm <= 0 || *req.HeightCm > 3000) {
		return fmt.Errorf("%w: height_cm out of range", ErrInvalidPhoto)
	}
	return nil
}

func prepareQuery(q *ReadingQuery) error {
	q.Limit = clampLimit(q.Limit)

	ts, id, err := cursor.Decode(q.Cursor)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	q.AfterTS, q.AfterID = ts, id

	return nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageLimit
	case limit > maxPageLimit:
		return maxPageLimit
	default:
		return limit
	}
}

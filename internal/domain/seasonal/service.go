package seasonal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Forecast(ctx context.Context, userID, plantID int) (*Forecast, error)
	Overlay(ctx context.Context, userID, plantID int) (*OverlayPayload, error)
}

type Service struct {
	repo       Repository
	forecaster Forecaster
	plants     PlantSource
	readings   LastLux
	log        *slog.Logger
}

func NewService(repo Repository, forecaster Forecaster, plants PlantSource, readings LastLux, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		forecaster: forecaster,
		plants:     plants,
		readings:   readings,
		log:        log,
	}
}

// Forecast отдает сезонный прогноз ухода; действующий прогноз берется из
// кэша, новый генерируется моделью и кэшируется до конца сезона
func (s *Service) Forecast(ctx context.Context, userID, plantID int) (*Forecast, error) {
	p, err := s.plants.Get(ctx, userID, plantID)
	if err != nil {
		return nil, fmt.Errorf("load plant: %w", err)
	}

	now := time.Now().UTC()
	season := SeasonFor(now, p.Hemisphere)

	cached, err := s.repo.Cached(ctx, userID, plantID, season)
	if err == nil && cached.ValidUntil.After(now) {
		return cached, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("forecast cache lookup", slog.Int("plant_id", plantID), slog.Any("error", err))
	}

	f, err := s.forecaster.ForecastCare(ctx, p, season)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFailure, err)
	}

	f.ID = uuid.NewString()
	f.UserID = userID
	f.PlantID = plantID
	f.Season = season
	f.Hemisphere = p.Hemisphere
	f.Model = s.forecaster.ModelName()
	f.GeneratedAt = now
	f.ValidUntil = SeasonEnd(now)

	if err := s.repo.Save(ctx, f); err != nil {
		// прогноз пользователю важнее кэша
		s.log.Error("cache forecast", slog.Int("plant_id", plantID), slog.Any("error", err))
	}

	return f, nil
}

// Overlay собирает данные для AR-подсказок: целевой диапазон освещенности
// из прогноза против последнего фактического замера
func (s *Service) Overlay(ctx context.Context, userID, plantID int) (*OverlayPayload, error) {
	f, err := s.Forecast(ctx, userID, plantID)
	if err != nil {
		return nil, err
	}

	overlay := &OverlayPayload{
		PlantID:      plantID,
		Season:       f.Season,
		TargetLuxMin: f.TargetLuxMin,
		TargetLuxMax: f.TargetLuxMax,
	}

	lux, ok, err := s.readings.LatestLux(ctx, userID, plantID)
	if err != nil {
		s.log.Warn("latest lux lookup", slog.Int("plant_id", plantID), slog.Any("error", err))
		return overlay, nil
	}
	if !ok {
		return overlay, nil
	}

	overlay.CurrentLux = lux
	switch {
	case f.TargetLuxMin > 0 && lux < f.TargetLuxMin:
		overlay.LightDeficit = true
		overlay.MoveSuggestion = "переставьте растение ближе к окну"
	case f.TargetLuxMax > 0 && lux > f.TargetLuxMax:
		overlay.LightExcess = true
		overlay.MoveSuggestion = "уберите растение с прямого солнца"
	}

	return overlay, nil
}

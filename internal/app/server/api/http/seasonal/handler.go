package seasonal

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/seasonal"
)

type Handler struct {
	service    seasonal.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service seasonal.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.forecastOp(), h.forecast)
	huma.Register(api, h.overlayOp(), h.overlay)
}

func (h *Handler) forecast(ctx context.Context, input *plantInput) (*forecastOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	f, err := h.service.Forecast(ctx, userID, input.ID)
	if err != nil {
		switch {
		case errors.Is(err, plant.ErrNotFound):
			return nil, huma.Error404NotFound("plant not found")
		case errors.Is(err, seasonal.ErrModelFailure):
			return nil, huma.Error502BadGateway("forecast model unavailable")
		}
		return nil, err
	}

	return &forecastOutput{Body: f}, nil
}

func (h *Handler) overlay(ctx context.Context, input *plantInput) (*overlayOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	payload, err := h.service.Overlay(ctx, userID, input.ID)
	if err != nil {
		switch {
		case errors.Is(err, plant.ErrNotFound):
			return nil, huma.Error404NotFound("plant not found")
		case errors.Is(err, seasonal.ErrModelFailure):
			return nil, huma.Error502BadGateway("forecast model unavailable")
		}
		return nil, err
	}

	return &overlayOutput{Body: payload}, nil
}

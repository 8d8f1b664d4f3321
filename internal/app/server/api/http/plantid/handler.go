package plantid

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/domain/plantid"
)

type Handler struct {
	service    plantid.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service plantid.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.identifyOp(), h.identify)
	huma.Register(api, h.historyOp(), h.history)
	huma.Register(api, h.findOp(), h.find)
}

func (h *Handler) identify(ctx context.Context, input *identifyInput) (*identifyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	ident, err := h.service.Identify(ctx, userID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, plantid.ErrInvalidImage):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, plantid.ErrNoCandidates):
			return nil, huma.Error404NotFound("no plant recognized on the photo")
		case errors.Is(err, plantid.ErrModelFailure):
			return nil, huma.Error502BadGateway("identification model unavailable")
		}
		return nil, err
	}

	return &identifyOutput{Body: ident}, nil
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*historyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.History(ctx, userID, input.Limit)
	if err != nil {
		return nil, err
	}

	return &historyOutput{Body: *resp}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*identifyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	ident, err := h.service.Get(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, plantid.ErrNotFound) {
			return nil, huma.Error404NotFound("identification not found")
		}
		return nil, err
	}

	return &identifyOutput{Body: ident}, nil
}

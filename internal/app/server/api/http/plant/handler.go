package plant

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/domain/plant"
)

type Handler struct {
	service    plant.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service plant.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.searchOp(), h.search)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	plants, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: plants,
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	plantID, err := h.service.Create(ctx, userID, input.Body)
	if err != nil {
		if errors.Is(err, plant.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return &output{
			Body: response{Status: "Error"},
		}, err
	}

	return &output{
		Body: response{
			ID:     plantID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	p, err := h.service.Find(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, plant.ErrNotFound) {
			return nil, huma.Error404NotFound("plant not found")
		}
		return nil, err
	}

	return &findOutput{
		Body: findResponse{
			Status: "Ok",
			Plant:  p,
		},
	}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.Update(ctx, userID, input.ID, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, plant.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		case errors.Is(err, plant.ErrVersionConflict):
			return nil, huma.Error409Conflict(err.Error())
		case errors.Is(err, plant.ErrNotFound):
			return nil, huma.Error404NotFound("plant not found")
		}
		return &output{
			Body: response{
				ID:     input.ID,
				Status: "Error",
			},
		}, err
	}

	return &output{
		Body: response{
			ID:     input.ID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *findInput) (*output, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		if errors.Is(err, plant.ErrNotFound) {
			return nil, huma.Error404NotFound("plant not found")
		}
		return &output{
			Body: response{Status: "Error"},
		}, err
	}

	return &output{
		Body: response{Status: "Ok"},
	}, nil
}

func (h *Handler) search(ctx context.Context, input *searchInput) (*searchOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	plants, err := h.service.Search(ctx, userID, plant.SearchCriteria{
		Species:  input.Species,
		Location: input.Location,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &searchOutput{
		Body: plant.ListResponse{Plants: plants, Total: len(plants)},
	}, nil
}

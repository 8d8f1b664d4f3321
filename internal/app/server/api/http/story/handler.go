package story

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/domain/story"
)

type Handler struct {
	service    story.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service story.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.feedOp(), h.feed)
	huma.Register(api, h.viewOp(), h.view)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	st, err := h.service.Create(ctx, userID, input.Body)
	if err != nil {
		if errors.Is(err, story.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &createOutput{
		Body: createResponse{
			ID:        st.ID,
			ExpiresAt: st.ExpiresAt,
			Status:    "Ok",
		},
	}, nil
}

func (h *Handler) feed(ctx context.Context, input *feedInput) (*feedOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.Feed(ctx, story.FeedQuery{
		Cursor: input.Cursor,
		Limit:  input.Limit,
	})
	if err != nil {
		if errors.Is(err, story.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &feedOutput{Body: *resp}, nil
}

// view отдает историю и засчитывает просмотр; истекшая история
// недоступна даже по прямой ссылке
func (h *Handler) view(ctx context.Context, input *idInput) (*viewOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	st, err := h.service.View(ctx, input.ID)
	if err != nil {
		switch {
		case errors.Is(err, story.ErrNotFound), errors.Is(err, story.ErrExpired):
			return nil, huma.Error404NotFound("story not found")
		}
		return nil, err
	}

	return &viewOutput{Body: st}, nil
}

func (h *Handler) delete(ctx context.Context, input *idInput) (*deleteOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		if errors.Is(err, story.ErrNotFound) {
			return nil, huma.Error404NotFound("story not found")
		}
		return nil, err
	}

	return &deleteOutput{
		Body: statusResponse{Status: "Ok"},
	}, nil
}

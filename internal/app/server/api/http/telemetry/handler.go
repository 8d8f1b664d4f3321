package telemetry

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/domain/telemetry"
)

type Handler struct {
	service    telemetry.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service telemetry.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.ingestReadingOp(), h.ingestReading)
	huma.Register(api, h.ingestBatchOp(), h.ingestBatch)
	huma.Register(api, h.listReadingsOp(), h.listReadings)

	huma.Register(api, h.uploadPhotoOp(), h.uploadPhoto)
	huma.Register(api, h.listPhotosOp(), h.listPhotos)
	huma.Register(api, h.photoContentOp(), h.photoContent)
}

func (h *Handler) ingestReading(ctx context.Context, input *readingInput) (*readingOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	r, err := h.service.IngestReading(ctx, userID, input.Body)
	if err != nil {
		if errors.Is(err, telemetry.ErrInvalidReading) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &readingOutput{
		Body: readingResponse{
			ID:     r.ID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) ingestBatch(ctx context.Context, input *batchInput) (*batchOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.IngestBatch(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &batchOutput{Body: *resp}, nil
}

func (h *Handler) listReadings(ctx context.Context, input *listInput) (*readingsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	page, err := h.service.Readings(ctx, userID, telemetry.ReadingQuery{
		PlantID: input.PlantID,
		Cursor:  input.Cursor,
		Limit:   input.Limit,
	})
	if err != nil {
		if errors.Is(err, telemetry.ErrInvalidCursor) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &readingsOutput{Body: *page}, nil
}

func (h *Handler) uploadPhoto(ctx context.Context, input *photoUploadInput) (*photoOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	p, err := h.service.UploadPhoto(ctx, userID, input.Body)
	if err != nil {
		if errors.Is(err, telemetry.ErrInvalidPhoto) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &photoOutput{
		Body: photoResponse{
			ID:     p.ID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) listPhotos(ctx context.Context, input *listInput) (*photosOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	page, err := h.service.Photos(ctx, userID, telemetry.ReadingQuery{
		PlantID: input.PlantID,
		Cursor:  input.Cursor,
		Limit:   input.Limit,
	})
	if err != nil {
		if errors.Is(err, telemetry.ErrInvalidCursor) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	return &photosOutput{Body: *page}, nil
}

// photoContent отдает байты фотографии как есть, минуя JSON
func (h *Handler) photoContent(ctx context.Context, input *photoContentInput) (*photoContentOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	data, contentType, err := h.service.PhotoContent(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, telemetry.ErrNotFound) {
			return nil, huma.Error404NotFound("photo not found")
		}
		return nil, err
	}

	return &photoContentOutput{
		ContentType: contentType,
		Body:        data,
	}, nil
}

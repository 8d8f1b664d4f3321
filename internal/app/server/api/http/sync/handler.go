package sync

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/sync"
)

type Handler struct {
	service    sync.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getChangesOp(), h.getChanges)
	huma.Register(api, h.batchSyncOp(), h.batchSync)
	huma.Register(api, h.getStatusOp(), h.getStatus)
	huma.Register(api, h.getConflictsOp(), h.getConflicts)
	huma.Register(api, h.resolveConflictOp(), h.resolveConflict)
	huma.Register(api, h.getDevicesOp(), h.getDevices)
	huma.Register(api, h.removeDeviceOp(), h.removeDevice)
}

func (h *Handler) getChanges(ctx context.Context, input *getChangesInput) (*getChangesOutput, error) {
	resp, err := h.service.GetChanges(ctx, input.Body)
	if err != nil {
		return nil, mapError(err)
	}

	return &getChangesOutput{Body: *resp}, nil
}

func (h *Handler) batchSync(ctx context.Context, input *batchSyncInput) (*batchSyncOutput, error) {
	resp, err := h.service.ProcessBatch(ctx, input.Body)
	if err != nil {
		return nil, mapError(err)
	}

	return &batchSyncOutput{Body: *resp}, nil
}

func (h *Handler) getStatus(ctx context.Context, _ *getStatusInput) (*getStatusOutput, error) {
	status, err := h.service.GetStatus(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &getStatusOutput{Body: status}, nil
}

func (h *Handler) getConflicts(ctx context.Context, _ *getConflictsInput) (*getConflictsOutput, error) {
	conflicts, err := h.service.GetConflicts(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &getConflictsOutput{
		Body: conflictsResponse{Conflicts: conflicts, Total: len(conflicts)},
	}, nil
}

func (h *Handler) resolveConflict(ctx context.Context, input *resolveConflictInput) (*resolveConflictOutput, error) {
	resp, err := h.service.ResolveConflict(ctx, input.ID, input.Body)
	if err != nil {
		return nil, mapError(err)
	}

	return &resolveConflictOutput{Body: *resp}, nil
}

func (h *Handler) getDevices(ctx context.Context, _ *getDevicesInput) (*getDevicesOutput, error) {
	devices, err := h.service.GetDevices(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &getDevicesOutput{
		Body: devicesResponse{Devices: devices, Total: len(devices)},
	}, nil
}

func (h *Handler) removeDevice(ctx context.Context, input *removeDeviceInput) (*removeDeviceOutput, error) {
	if err := h.service.RemoveDevice(ctx, input.ID); err != nil {
		return nil, mapError(err)
	}

	return &removeDeviceOutput{
		Body: statusResponse{Status: "Ok"},
	}, nil
}

// mapError переводит доменные ошибки синхронизации в HTTP статусы
func mapError(err error) error {
	switch {
	case errors.Is(err, sync.ErrNotAuthenticated):
		return huma.Error401Unauthorized("Unauthorized")
	case errors.Is(err, sync.ErrForbidden):
		return huma.Error403Forbidden("Forbidden")
	case errors.Is(err, sync.ErrConflictNotFound):
		return huma.Error404NotFound("conflict not found")
	case errors.Is(err, sync.ErrDeviceNotFound):
		return huma.Error404NotFound("device not found")
	case errors.Is(err, sync.ErrInvalidInput):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return err
	}
}

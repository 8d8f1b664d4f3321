package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/utils/cursor"
)

// Servicer интерфейс сервиса синхронизации
type Servicer interface {
	// GetChanges возвращает изменения после указанного времени
	GetChanges(ctx context.Context, req GetChangesRequest) (*GetChangesResponse, error)

	// ProcessBatch обрабатывает пакет записей для синхронизации
	ProcessBatch(ctx context.Context, req BatchSyncRequest) (*BatchSyncResponse, error)

	// GetStatus возвращает текущий статус синхронизации
	GetStatus(ctx context.Context) (*SyncStatus, error)

	// GetConflicts возвращает список неразрешенных конфликтов
	GetConflicts(ctx context.Context) ([]Conflict, error)

	// ResolveConflict разрешает указанный конфликт
	ResolveConflict(ctx context.Context, conflictID int, req ResolveConflictRequest) (*ResolveConflictResponse, error)

	// GetDevices возвращает список устройств пользователя
	GetDevices(ctx context.Context) ([]DeviceInfo, error)

	// RemoveDevice удаляет устройство из списка синхронизации
	RemoveDevice(ctx context.Context, deviceID string) error
}

// Service реализация сервиса синхронизации
type Service struct {
	repo     Repository
	log      *slog.Logger
	config   *ServiceConfig
	appliers map[RecordKind]Applier
}

// NewService создает новый сервис синхронизации
func NewService(repo Repository, log *slog.Logger, config *ServiceConfig) *Service {
	if config == nil {
		config = &ServiceConfig{
			BatchSize:      100,
			MaxSyncRecords: 1000,
			ConflictTTL:    7 * 24 * time.Hour,
		}
	}

	return &Service{
		repo:     repo,
		log:      log,
		config:   config,
		appliers: make(map[RecordKind]Applier),
	}
}

// RegisterApplier привязывает вид записи к его доменному сервису;
// записи без применителя остаются только в ленте изменений
func (s *Service) RegisterApplier(kind RecordKind, a Applier) {
	s.appliers[kind] = a
}

// applyRecord доводит запись до доменного хранилища ее вида. Домен
// сам отражает запись в sync_records, иначе лента пополняется здесь.
func (s *Service) applyRecord(ctx context.Context, rec *SyncRecord) error {
	if a, ok := s.appliers[rec.Kind]; ok {
		return a.Apply(ctx, rec)
	}
	return s.repo.SaveRecord(ctx, rec)
}

// GetChanges возвращает изменения после указанного времени
func (s *Service) GetChanges(ctx context.Context, req GetChangesRequest) (*GetChangesResponse, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	if req.Limit <= 0 {
		req.Limit = s.config.BatchSize
	}
	if req.Limit > s.config.MaxSyncRecords {
		req.Limit = s.config.MaxSyncRecords
	}

	since, afterID, err := cursor.Decode(req.Cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Cursor == "" {
		since = req.Since
	}

	records, err := s.repo.RecordsModifiedSince(ctx, userID, since, afterID, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("get records for sync: %w", err)
	}

	status, err := s.repo.GetSyncStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sync status: %w", err)
	}

	status.LastSyncTime = time.Now()
	status.SyncVersion++
	if err := s.repo.UpdateSyncStatus(ctx, status); err != nil {
		s.log.Warn("update sync status", slog.Any("error", err))
	}

	resp := &GetChangesResponse{
		Records:     records,
		ServerTime:  time.Now().UTC(),
		SyncVersion: status.SyncVersion,
	}
	if len(records) == req.Limit {
		last := records[len(records)-1]
		resp.NextCursor = cursor.Encode(last.ModifiedAt, last.ID)
		resp.HasMore = true
	}

	return resp, nil
}

// ProcessBatch обрабатывает пакет записей; конфликтующие записи не
// отклоняют пакет, а регистрируются для последующего разрешения
func (s *Service) ProcessBatch(ctx context.Context, req BatchSyncRequest) (*BatchSyncResponse, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	resp := &BatchSyncResponse{}
	now := time.Now().UTC()

	for _, rec := range req.Records {
		rec.UserID = userID
		rec.ReceivedAt = now
		if rec.DeviceID == "" {
			rec.DeviceID = req.DeviceID
		}

		if rec.ID == "" || rec.Kind == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, RecordError{RecordID: rec.ID, Error: "id and kind are required"})
			continue
		}

		existing, err := s.repo.GetRecord(ctx, userID, rec.ID)
		if err == nil && existing.Version >= rec.Version {
			if err := s.registerConflict(ctx, userID, rec, existing); err != nil {
				resp.Failed++
				resp.Errors = append(resp.Errors, RecordError{RecordID: rec.ID, Error: fmt.Sprintf("register conflict: %v", err)})
				continue
			}
			resp.Conflicts++
			continue
		}

		if err := s.applyRecord(ctx, &rec); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, RecordError{RecordID: rec.ID, Error: err.Error()})
			continue
		}

		resp.Processed++
	}

	if req.DeviceID != "" {
		if err := s.touchDevice(ctx, userID, req.DeviceID, now); err != nil {
			s.log.Warn("update device sync time", slog.String("device_id", req.DeviceID), slog.Any("error", err))
		}
	}

	return resp, nil
}

// GetStatus возвращает текущий статус синхронизации
func (s *Service) GetStatus(ctx context.Context) (*SyncStatus, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	status, err := s.repo.GetSyncStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sync status: %w", err)
	}

	return status, nil
}

// GetConflicts возвращает список неразрешенных конфликтов
func (s *Service) GetConflicts(ctx context.Context) ([]Conflict, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	conflicts, err := s.repo.ListConflicts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get conflicts: %w", err)
	}

	return conflicts, nil
}

// ResolveConflict применяет выбранную стратегию и помечает конфликт
// разрешенным. Стратегия newer выбирает сторону по времени изменения.
func (s *Service) ResolveConflict(ctx context.Context, conflictID int, req ResolveConflictRequest) (*ResolveConflictResponse, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	conflict, err := s.repo.GetConflict(ctx, conflictID)
	if err != nil {
		return nil, fmt.Errorf("get conflict: %w", err)
	}
	if conflict.UserID != userID {
		return nil, ErrForbidden
	}

	winner, err := s.pickWinner(conflict, req)
	if err != nil {
		return nil, err
	}

	resp := &ResolveConflictResponse{}
	if winner != nil {
		winner.UserID = userID
		winner.ReceivedAt = time.Now().UTC()
		if err := s.applyRecord(ctx, winner); err != nil {
			return nil, fmt.Errorf("apply resolution: %w", err)
		}
		resp.Record = winner
	}

	if err := s.repo.MarkResolved(ctx, conflictID, req.Resolution, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("mark conflict resolved: %w", err)
	}

	return resp, nil
}

// GetDevices возвращает список устройств пользователя
func (s *Service) GetDevices(ctx context.Context) ([]DeviceInfo, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	devices, err := s.repo.ListDevices(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get devices: %w", err)
	}

	return devices, nil
}

// RemoveDevice удаляет устройство из списка синхронизации
func (s *Service) RemoveDevice(ctx context.Context, deviceID string) error {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return ErrNotAuthenticated
	}

	device, err := s.repo.GetDevice(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("get device info: %w", err)
	}
	if device.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.DeleteDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("delete device: %w", err)
	}

	return nil
}

// PurgeResolvedConflicts удаляет разрешенные конфликты старше ConflictTTL
func (s *Service) PurgeResolvedConflicts(ctx context.Context) (int64, error) {
	n, err := s.repo.PurgeResolved(ctx, time.Now().Add(-s.config.ConflictTTL))
	if err != nil {
		return 0, fmt.Errorf("purge resolved conflicts: %w", err)
	}
	return n, nil
}

func (s *Service) registerConflict(ctx context.Context, userID int, client SyncRecord, server *SyncRecord) error {
	conflictType := ConflictEditEdit
	switch {
	case server.Deleted && !client.Deleted:
		conflictType = ConflictDeleteEdit
	case !server.Deleted && client.Deleted:
		conflictType = ConflictEditDelete
	}

	conflict := &Conflict{
		RecordID:     client.ID,
		RecordKind:   client.Kind,
		UserID:       userID,
		DeviceID:     client.DeviceID,
		ClientData:   client.Payload,
		ServerData:   server.Payload,
		ClientMtime:  client.ModifiedAt,
		ServerMtime:  server.ModifiedAt,
		ConflictType: conflictType,
		CreatedAt:    time.Now().UTC(),
	}

	return s.repo.SaveConflict(ctx, conflict)
}

// pickWinner возвращает запись, которую нужно применить; nil означает,
// что серверная версия остается как есть
func (s *Service) pickWinner(conflict *Conflict, req ResolveConflictRequest) (*SyncRecord, error) {
	clientWins := func() *SyncRecord {
		return &SyncRecord{
			ID:         conflict.RecordID,
			Kind:       conflict.RecordKind,
			Payload:    conflict.ClientData,
			ModifiedAt: conflict.ClientMtime,
			DeviceID:   conflict.DeviceID,
		}
	}

	switch req.Resolution {
	case ResolutionClient:
		return clientWins(), nil
	case ResolutionServer:
		return nil, nil
	case ResolutionNewer:
		if conflict.ClientMtime.After(conflict.ServerMtime) {
			return clientWins(), nil
		}
		return nil, nil
	case ResolutionManual:
		if req.Merged == nil {
			return nil, fmt.Errorf("%w: manual resolution requires merged record", ErrInvalidInput)
		}
		merged := *req.Merged
		merged.ID = conflict.RecordID
		merged.Kind = conflict.RecordKind
		return &merged, nil
	default:
		return nil, fmt.Errorf("%w: unknown resolution %q", ErrInvalidInput, req.Resolution)
	}
}

func (s *Service) touchDevice(ctx context.Context, userID int, deviceID string, syncTime time.Time) error {
	device, err := s.repo.GetDevice(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, ErrDeviceNotFound) {
			return err
		}
		device = &DeviceInfo{
			ID:        deviceID,
			UserID:    userID,
			CreatedAt: syncTime,
		}
	}

	device.LastSyncTime = syncTime
	return s.repo.UpsertDevice(ctx, device)
}

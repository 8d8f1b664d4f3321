package sync

import (
	"context"
	"time"
)

// Repository интерфейс для работы с синхронизацией
type Repository interface {
	// Статус и устройства
	GetSyncStatus(ctx context.Context, userID int) (*SyncStatus, error)
	UpdateSyncStatus(ctx context.Context, status *SyncStatus) error
	GetDevice(ctx context.Context, deviceID string) (*DeviceInfo, error)
	UpsertDevice(ctx context.Context, device *DeviceInfo) error
	ListDevices(ctx context.Context, userID int) ([]DeviceInfo, error)
	DeleteDevice(ctx context.Context, deviceID string) error

	// Записи
	RecordsModifiedSince(ctx context.Context, userID int, since time.Time, afterID string, limit int) ([]SyncRecord, error)
	GetRecord(ctx context.Context, userID int, recordID string) (*SyncRecord, error)
	SaveRecord(ctx context.Context, record *SyncRecord) error

	// Конфликты
	SaveConflict(ctx context.Context, conflict *Conflict) error
	ListConflicts(ctx context.Context, userID int) ([]Conflict, error)
	GetConflict(ctx context.Context, conflictID int) (*Conflict, error)
	MarkResolved(ctx context.Context, conflictID int, resolution string, resolvedAt time.Time) error
	PurgeResolved(ctx context.Context, before time.Time) (int64, error)
}

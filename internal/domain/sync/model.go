package sync

import (
	"encoding/json"
	"time"
)

// RecordKind — тип синхронизируемой записи
type RecordKind string

const (
	KindPlant        RecordKind = "plant"
	KindLightReading RecordKind = "light_reading"
	KindGrowthPhoto  RecordKind = "growth_photo"
	KindStory        RecordKind = "story"
)

// ConflictType — как именно разошлись версии
const (
	ConflictEditEdit   = "edit_edit"
	ConflictDeleteEdit = "delete_edit" // удалено на сервере, изменено на клиенте
	ConflictEditDelete = "edit_delete" // изменено на сервере, удалено на клиенте
)

// Resolution — принятое решение по конфликту
const (
	ResolutionClient = "client"
	ResolutionServer = "server"
	ResolutionNewer  = "newer"
	ResolutionManual = "manual"
)

// SyncRecord — запись для синхронизации; Payload — доменный объект в JSON
type SyncRecord struct {
	ID         string          `json:"id"`
	UserID     int             `json:"user_id"`
	Kind       RecordKind      `json:"kind" enum:"plant,light_reading,growth_photo,story"`
	Payload    json.RawMessage `json:"payload"`
	Version    int             `json:"version"`
	Deleted    bool            `json:"deleted,omitempty"`
	ModifiedAt time.Time       `json:"modified_at"`
	DeviceID   string          `json:"device_id,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// SyncStatus — состояние синхронизации пользователя
type SyncStatus struct {
	UserID           int       `json:"user_id"`
	LastSyncTime     time.Time `json:"last_sync_time"`
	TotalRecords     int       `json:"total_records"`
	DeviceCount      int       `json:"device_count"`
	PendingConflicts int       `json:"pending_conflicts"`
	SyncVersion      int64     `json:"sync_version"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DeviceInfo — устройство, участвующее в синхронизации
type DeviceInfo struct {
	ID           string    `json:"id"`
	UserID       int       `json:"user_id"`
	Name         string    `json:"name"`
	Platform     string    `json:"platform"` // android, ios, web
	LastSyncTime time.Time `json:"last_sync_time"`
	CreatedAt    time.Time `json:"created_at"`
	UserAgent    string    `json:"user_agent,omitempty"`
}

// Conflict — расхождение клиентской и серверной версии записи
type Conflict struct {
	ID           int             `json:"id"`
	RecordID     string          `json:"record_id"`
	RecordKind   RecordKind      `json:"record_kind"`
	UserID       int             `json:"user_id"`
	DeviceID     string          `json:"device_id,omitempty"`
	ClientData   json.RawMessage `json:"client_data"`
	ServerData   json.RawMessage `json:"server_data"`
	ClientMtime  time.Time       `json:"client_mtime"`
	ServerMtime  time.Time       `json:"server_mtime"`
	ConflictType string          `json:"conflict_type"`
	Resolved     bool            `json:"resolved"`
	Resolution   string          `json:"resolution,omitempty"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ServiceConfig конфигурация сервиса синхронизации
type ServiceConfig struct {
	BatchSize      int           `json:"batch_size"`
	MaxSyncRecords int           `json:"max_sync_records"`
	ConflictTTL    time.Duration `json:"conflict_ttl"`
}

package client

import (
	"encoding/json"
	"time"
)

// SyncState — состояние элемента очереди синхронизации.
// pending → in_progress → synced | failed | conflict;
// failed с невыработанными попытками переходит в retry_scheduled.
type SyncState string

const (
	StatePending        SyncState = "pending"
	StateInProgress     SyncState = "in_progress"
	StateSynced         SyncState = "synced"
	StateFailed         SyncState = "failed"
	StateConflict       SyncState = "conflict"
	StateRetryScheduled SyncState = "retry_scheduled"
)

// QueueItem — локальная запись, ожидающая отправки на сервер
type QueueItem struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"` // plant, light_reading, growth_photo, story
	Payload     json.RawMessage `json:"payload"`
	Version     int             `json:"version"`
	Deleted     bool            `json:"deleted"`
	State       SyncState       `json:"state"`
	Attempts    int             `json:"attempts"`
	NextRetryAt time.Time       `json:"next_retry_at"`
	LastError   string          `json:"last_error,omitempty"`
	ModifiedAt  time.Time       `json:"modified_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CachedPlant — локальная копия профиля растения
type CachedPlant struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Species      string    `json:"species,omitempty"`
	Location     string    `json:"location,omitempty"`
	Hemisphere   string    `json:"hemisphere,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Version      int       `json:"version"`
	LastModified time.Time `json:"last_modified"`
}

// LocalReading — замер освещенности, записанный локально
type LocalReading struct {
	ID         string    `json:"id"`
	PlantID    int       `json:"plant_id"`
	Lux        float64   `json:"lux"`
	ColorTempK *int      `json:"color_temp_k,omitempty"`
	MeasuredAt time.Time `json:"measured_at"`
	DeviceID   string    `json:"device_id,omitempty"`
}

// CareTask — вид задачи по уходу
type CareTask string

const (
	TaskWater     CareTask = "water"
	TaskFertilize CareTask = "fertilize"
	TaskRotate    CareTask = "rotate"
)

// Reminder — локальное напоминание по уходу; интервал корректируется
// по сезону при каждом выполнении
type Reminder struct {
	ID           string    `json:"id"`
	PlantID      int       `json:"plant_id"`
	Task         CareTask  `json:"task"`
	IntervalDays int       `json:"interval_days"`
	NextDue      time.Time `json:"next_due"`
	LastDone     time.Time `json:"last_done"`
	CreatedAt    time.Time `json:"created_at"`
}

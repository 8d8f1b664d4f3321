package telemetry

import (
	"time"
)

// LightReading — замер освещенности с датчика телефона
type LightReading struct {
	ID           string     `json:"id"`
	UserID       int        `json:"user_id"`
	PlantID      int        `json:"plant_id"`
	Lux          float64    `json:"lux"`
	ColorTempK   *int       `json:"color_temp_k,omitempty"`
	MeasuredAt   time.Time  `json:"measured_at"`
	DeviceID     string     `json:"device_id,omitempty"`
	Version      int        `json:"version"`
	LastModified time.Time  `json:"last_modified"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// GrowthPhoto — метаданные фотографии роста; сами байты лежат в
// объектном хранилище под ObjectKey
type GrowthPhoto struct {
	ID           string     `json:"id"`
	UserID       int        `json:"user_id"`
	PlantID      int        `json:"plant_id"`
	ObjectKey    string     `json:"object_key"`
	ContentType  string     `json:"content_type,omitempty"`
	SizeBytes    int64      `json:"size_bytes"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	HeightCm     *float64   `json:"height_cm,omitempty"` // замер высоты растения
	TakenAt      time.Time  `json:"taken_at"`
	DeviceID     string     `json:"device_id,omitempty"`
	Version      int        `json:"version"`
	LastModified time.Time  `json:"last_modified"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

package telemetry

import "time"

type ReadingRequest struct {
	ID         string    `json:"id,omitempty" doc:"Клиентский UUID записи; пустой — сервер сгенерирует"`
	PlantID    int       `json:"plant_id" minimum:"1"`
	Lux        float64   `json:"lux" doc:"Освещенность в люксах"`
	ColorTempK *int      `json:"color_temp_k,omitempty" doc:"Цветовая температура, K"`
	MeasuredAt time.Time `json:"measured_at" format:"date-time"`
	DeviceID   string    `json:"device_id,omitempty"`
}

type BatchRequest struct {
	Readings []ReadingRequest `json:"readings" maxItems:"500"`
}

// ItemError — ошибка одного элемента пакета; пакет никогда не
// отклоняется целиком
type ItemError struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

type BatchResponse struct {
	Accepted int         `json:"accepted"`
	Failed   []ItemError `json:"failed,omitempty"`
}

type PhotoUploadRequest struct {
	ID          string    `json:"id,omitempty"`
	PlantID     int       `json:"plant_id" minimum:"1"`
	Data        string    `json:"data" doc:"Base64-encoded содержимое фотографии" minLength:"1"`
	ContentType string    `json:"content_type,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	HeightCm    *float64  `json:"height_cm,omitempty"`
	TakenAt     time.Time `json:"taken_at" format:"date-time"`
	DeviceID    string    `json:"device_id,omitempty"`
}

type ReadingsPage struct {
	Readings   []LightReading `json:"readings"`
	NextCursor string         `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

type PhotosPage struct {
	Photos     []GrowthPhoto `json:"photos"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

type ReadingQuery struct {
	PlantID int
	Cursor  string
	Limit   int

	// Позиция keyset-пагинации; заполняется сервисом из Cursor
	AfterTS time.Time
	AfterID string
}

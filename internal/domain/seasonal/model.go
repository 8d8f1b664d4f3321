package seasonal

import "time"

type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// Recommendation — один совет по уходу на текущий сезон
type Recommendation struct {
	Category string `json:"category" enum:"watering,light,fertilizer,humidity,repotting"`
	Advice   string `json:"advice"`
}

// Forecast — сезонный прогноз ухода для растения; кэшируется до ValidUntil
type Forecast struct {
	ID                   string           `json:"id"`
	UserID               int              `json:"user_id"`
	PlantID              int              `json:"plant_id"`
	Season               Season           `json:"season"`
	Hemisphere           string           `json:"hemisphere"`
	WateringIntervalDays int              `json:"watering_interval_days"`
	TargetLuxMin         float64          `json:"target_lux_min"`
	TargetLuxMax         float64          `json:"target_lux_max"`
	Recommendations      []Recommendation `json:"recommendations"`
	Model                string           `json:"model"`
	GeneratedAt          time.Time        `json:"generated_at"`
	ValidUntil           time.Time        `json:"valid_until"`
}

// OverlayPayload — данные для AR-подсказок на клиенте; рендеринг
// остается на стороне приложения
type OverlayPayload struct {
	PlantID        int     `json:"plant_id"`
	Season         Season  `json:"season"`
	TargetLuxMin   float64 `json:"target_lux_min"`
	TargetLuxMax   float64 `json:"target_lux_max"`
	CurrentLux     float64 `json:"current_lux,omitempty"`
	LightDeficit   bool    `json:"light_deficit"`
	LightExcess    bool    `json:"light_excess"`
	MoveSuggestion string  `json:"move_suggestion,omitempty"`
}

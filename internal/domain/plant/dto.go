package plant

import "time"

type CreateRequest struct {
	Name       string     `json:"name" minLength:"1" maxLength:"120" doc:"Имя растения"`
	Species    string     `json:"species,omitempty" doc:"Вид (научное название)"`
	Location   string     `json:"location,omitempty" doc:"Где стоит растение"`
	Hemisphere string     `json:"hemisphere,omitempty" enum:"north,south" doc:"Полушарие для сезонных прогнозов"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

type UpdateRequest struct {
	Name       string     `json:"name" minLength:"1" maxLength:"120"`
	Species    string     `json:"species,omitempty"`
	Location   string     `json:"location,omitempty"`
	Hemisphere string     `json:"hemisphere,omitempty" enum:"north,south"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Version    int        `json:"version" minimum:"1" doc:"Ожидаемая версия записи"`
}

type ListResponse struct {
	Plants []Plant `json:"plants"`
	Total  int     `json:"total"`
}

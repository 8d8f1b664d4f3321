package plantid

import "time"

// Candidate — один вариант определения вида, отсортированы по уверенности
type Candidate struct {
	ScientificName string  `json:"scientific_name"`
	CommonName     string  `json:"common_name,omitempty"`
	Confidence     float64 `json:"confidence" minimum:"0" maximum:"1"`
	CareSummary    string  `json:"care_summary,omitempty"`
}

// Identification — результат распознавания, сохраняется в истории
type Identification struct {
	ID         string      `json:"id"`
	UserID     int         `json:"user_id"`
	PlantID    *int        `json:"plant_id,omitempty"` // привязка к растению, если была
	Candidates []Candidate `json:"candidates"`
	Model      string      `json:"model"`
	CreatedAt  time.Time   `json:"created_at"`
}

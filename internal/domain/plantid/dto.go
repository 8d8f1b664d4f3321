package plantid

type IdentifyRequest struct {
	Data        string `json:"data" doc:"Base64-encoded фотография растения" minLength:"1"`
	ContentType string `json:"content_type,omitempty"`
	PlantID     *int   `json:"plant_id,omitempty" doc:"Привязать результат к существующему растению"`
}

type HistoryResponse struct {
	Identifications []Identification `json:"identifications"`
	Total           int              `json:"total"`
}

package telemetry

import "leafwise/internal/domain/telemetry"

type readingInput struct {
	Body telemetry.ReadingRequest
}

type readingOutput struct {
	Body readingResponse
}

type readingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type batchInput struct {
	Body telemetry.BatchRequest
}

type batchOutput struct {
	Body telemetry.BatchResponse
}

type listInput struct {
	PlantID int    `query:"plant_id" minimum:"0" doc:"Фильтр по растению; 0 — все растения"`
	Cursor  string `query:"cursor" doc:"Позиция предыдущей страницы"`
	Limit   int    `query:"limit" minimum:"0" maximum:"200"`
}

type readingsOutput struct {
	Body telemetry.ReadingsPage
}

type photoUploadInput struct {
	Body telemetry.PhotoUploadRequest
}

type photoOutput struct {
	Body photoResponse
}

type photoResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type photosOutput struct {
	Body telemetry.PhotosPage
}

type photoContentInput struct {
	ID string `path:"id" doc:"ID фотографии"`
}

type photoContentOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

package telemetry

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) ingestReadingOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-ingest-reading",
		Method:      http.MethodPost,
		Path:        "/api/v1/telemetry/light",
		Summary:     "Принять замер освещенности",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) ingestBatchOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-ingest-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/telemetry/light/batch",
		Summary:     "Принять пакет замеров",
		Description: "Ошибки отдельных замеров не отклоняют пакет целиком; они возвращаются поэлементно.",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listReadingsOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-list-readings",
		Method:      http.MethodGet,
		Path:        "/api/v1/telemetry/light",
		Summary:     "История замеров освещенности",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) uploadPhotoOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-upload-photo",
		Method:      http.MethodPost,
		Path:        "/api/v1/telemetry/photos",
		Summary:     "Загрузить фотографию роста",
		Description: "Содержимое передается в base64; байты сохраняются в объектном хранилище.",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listPhotosOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-list-photos",
		Method:      http.MethodGet,
		Path:        "/api/v1/telemetry/photos",
		Summary:     "Список фотографий роста",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) photoContentOp() huma.Operation {
	return huma.Operation{
		OperationID: "telemetry-photo-content",
		Method:      http.MethodGet,
		Path:        "/api/v1/telemetry/photos/{id}/content",
		Summary:     "Скачать фотографию",
		Tags:        []string{"telemetry"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

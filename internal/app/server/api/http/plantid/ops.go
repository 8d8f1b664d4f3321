package plantid

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) identifyOp() huma.Operation {
	return huma.Operation{
		OperationID: "plantid-identify",
		Method:      http.MethodPost,
		Path:        "/api/v1/identify",
		Summary:     "Распознать растение по фотографии",
		Description: "Возвращает до пяти кандидатов по убыванию уверенности модели.",
		Tags:        []string{"identify"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "plantid-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/identify/history",
		Summary:     "История распознаваний",
		Tags:        []string{"identify"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "plantid-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/identify/{id}",
		Summary:     "Получить результат распознавания",
		Tags:        []string{"identify"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

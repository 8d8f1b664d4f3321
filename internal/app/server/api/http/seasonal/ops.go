package seasonal

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) forecastOp() huma.Operation {
	return huma.Operation{
		OperationID: "seasonal-forecast",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}/forecast",
		Summary:     "Сезонный прогноз ухода",
		Description: "Действующий прогноз берется из кэша; новый генерируется и кэшируется до конца сезона.",
		Tags:        []string{"seasonal"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) overlayOp() huma.Operation {
	return huma.Operation{
		OperationID: "seasonal-overlay",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}/overlay",
		Summary:     "Данные для AR-подсказок",
		Description: "Целевой диапазон освещенности против последнего фактического замера.",
		Tags:        []string{"seasonal"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

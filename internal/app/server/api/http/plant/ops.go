package plant

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants",
		Summary:     "Список растений пользователя",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/plants",
		Summary:     "Создать профиль растения",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Получить профиль растения",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Обновить профиль растения",
		Description: "Обновление с оптимистической блокировкой: версия в теле должна совпадать с текущей.",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Удалить растение",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) searchOp() huma.Operation {
	return huma.Operation{
		OperationID: "plants-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/search",
		Summary:     "Поиск растений по виду и расположению",
		Tags:        []string{"plants"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

package story

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "stories-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/stories",
		Summary:     "Опубликовать историю",
		Description: "История живет 24 часа, после чего исчезает из ленты.",
		Tags:        []string{"stories"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) feedOp() huma.Operation {
	return huma.Operation{
		OperationID: "stories-feed",
		Method:      http.MethodGet,
		Path:        "/api/v1/stories",
		Summary:     "Лента актуальных историй",
		Tags:        []string{"stories"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) viewOp() huma.Operation {
	return huma.Operation{
		OperationID: "stories-view",
		Method:      http.MethodGet,
		Path:        "/api/v1/stories/{id}",
		Summary:     "Просмотреть историю",
		Tags:        []string{"stories"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "stories-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/stories/{id}",
		Summary:     "Удалить свою историю",
		Tags:        []string{"stories"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

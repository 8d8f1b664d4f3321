package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"leafwise/internal/app/client/config"
	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/plantid"
	"leafwise/internal/domain/seasonal"
	"leafwise/internal/domain/story"
	"leafwise/internal/domain/sync"
	"leafwise/internal/domain/telemetry"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "LeafWise-Client/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// Register регистрирует пользователя на сервере
func (h *httpClient) Register(ctx context.Context, login, password, displayName string) error {
	body := map[string]string{
		"login":        login,
		"password":     password,
		"display_name": displayName,
	}

	resp, err := h.doRequest(ctx, "POST", "/user/register", body)
	if err != nil {
		return err
	}

	var regResp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &regResp); err != nil {
		return err
	}
	if regResp.Status != "Ok" {
		return fmt.Errorf("регистрация отклонена: %s", regResp.Error)
	}

	return nil
}

// Login аутентифицируется и возвращает токен сессии
func (h *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	body := map[string]string{
		"login":    login,
		"password": password,
	}

	resp, err := h.doRequest(ctx, "POST", "/user/login", body)
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token  string `json:"token"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}
	if loginResp.Status != "Ok" || loginResp.Token == "" {
		return "", fmt.Errorf("вход отклонен: %s", loginResp.Error)
	}

	return loginResp.Token, nil
}

// ListPlants возвращает растения пользователя с сервера
func (h *httpClient) ListPlants(ctx context.Context) (*plant.ListResponse, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/plants", nil)
	if err != nil {
		return nil, err
	}

	var list plant.ListResponse
	if err := h.parseResponse(resp, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// CreatePlant создает профиль растения на сервере
func (h *httpClient) CreatePlant(ctx context.Context, req plant.CreateRequest) (int, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/plants", req)
	if err != nil {
		return 0, err
	}

	var createResp struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	if err := h.parseResponse(resp, &createResp); err != nil {
		return 0, err
	}

	return createResp.ID, nil
}

// IngestReading отправляет один замер освещенности
func (h *httpClient) IngestReading(ctx context.Context, req telemetry.ReadingRequest) error {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/telemetry/light", req)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

// UploadPhoto отправляет фотографию роста (base64 в теле)
func (h *httpClient) UploadPhoto(ctx context.Context, req telemetry.PhotoUploadRequest) (string, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/telemetry/photos", req)
	if err != nil {
		return "", err
	}

	var photoResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := h.parseResponse(resp, &photoResp); err != nil {
		return "", err
	}

	return photoResp.ID, nil
}

// Identify распознает растение по фотографии
func (h *httpClient) Identify(ctx context.Context, req plantid.IdentifyRequest) (*plantid.Identification, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/identify", req)
	if err != nil {
		return nil, err
	}

	var ident plantid.Identification
	if err := h.parseResponse(resp, &ident); err != nil {
		return nil, err
	}

	return &ident, nil
}

// Forecast запрашивает сезонный прогноз ухода
func (h *httpClient) Forecast(ctx context.Context, plantID int) (*seasonal.Forecast, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/plants/"+strconv.Itoa(plantID)+"/forecast", nil)
	if err != nil {
		return nil, err
	}

	var f seasonal.Forecast
	if err := h.parseResponse(resp, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// Overlay запрашивает данные для AR-подсказок
func (h *httpClient) Overlay(ctx context.Context, plantID int) (*seasonal.OverlayPayload, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/plants/"+strconv.Itoa(plantID)+"/overlay", nil)
	if err != nil {
		return nil, err
	}

	var payload seasonal.OverlayPayload
	if err := h.parseResponse(resp, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// CreateStory публикует историю
func (h *httpClient) CreateStory(ctx context.Context, req story.CreateRequest) (string, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/stories", req)
	if err != nil {
		return "", err
	}

	var createResp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := h.parseResponse(resp, &createResp); err != nil {
		return "", err
	}

	return createResp.ID, nil
}

// StoryFeed возвращает ленту актуальных историй
func (h *httpClient) StoryFeed(ctx context.Context, cursor string, limit int) (*story.FeedResponse, error) {
	path := "/api/v1/stories?limit=" + strconv.Itoa(limit)
	if cursor != "" {
		path += "&cursor=" + cursor
	}

	resp, err := h.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var feed story.FeedResponse
	if err := h.parseResponse(resp, &feed); err != nil {
		return nil, err
	}

	return &feed, nil
}

// SyncBatch отправляет пакет записей очереди на сервер
func (h *httpClient) SyncBatch(ctx context.Context, req sync.BatchSyncRequest) (*sync.BatchSyncResponse, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/sync/batch", req)
	if err != nil {
		return nil, err
	}

	var batchResp sync.BatchSyncResponse
	if err := h.parseResponse(resp, &batchResp); err != nil {
		return nil, err
	}

	return &batchResp, nil
}

// GetChanges забирает изменения с сервера
func (h *httpClient) GetChanges(ctx context.Context, req sync.GetChangesRequest) (*sync.GetChangesResponse, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/v1/sync/changes", req)
	if err != nil {
		return nil, err
	}

	var changes sync.GetChangesResponse
	if err := h.parseResponse(resp, &changes); err != nil {
		return nil, err
	}

	return &changes, nil
}

// SyncStatus возвращает серверный статус синхронизации
func (h *httpClient) SyncStatus(ctx context.Context) (*sync.SyncStatus, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/sync/status", nil)
	if err != nil {
		return nil, err
	}

	var status sync.SyncStatus
	if err := h.parseResponse(resp, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// Conflicts возвращает неразрешенные конфликты
func (h *httpClient) Conflicts(ctx context.Context) ([]sync.Conflict, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/v1/sync/conflicts", nil)
	if err != nil {
		return nil, err
	}

	var conflictsResp struct {
		Conflicts []sync.Conflict `json:"conflicts"`
	}
	if err := h.parseResponse(resp, &conflictsResp); err != nil {
		return nil, err
	}

	return conflictsResp.Conflicts, nil
}

// ResolveConflict применяет стратегию разрешения на сервере
func (h *httpClient) ResolveConflict(ctx context.Context, conflictID int, req sync.ResolveConflictRequest) (*sync.ResolveConflictResponse, error) {
	path := "/api/v1/sync/conflicts/" + strconv.Itoa(conflictID) + "/resolve"
	resp, err := h.doRequest(ctx, "POST", path, req)
	if err != nil {
		return nil, err
	}

	var resolveResp sync.ResolveConflictResponse
	if err := h.parseResponse(resp, &resolveResp); err != nil {
		return nil, err
	}

	return &resolveResp, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Error != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Error)
			}
			if errResp.Title != "" {
				return fmt.Errorf("ошибка сервера: %s", errResp.Title)
			}
		}
		return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

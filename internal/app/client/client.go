// Package client — офлайн-клиент LeafWise: локальное хранилище SQLite,
// очередь синхронизации, напоминания по уходу и HTTP-доступ к серверу.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/client/config"
	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/plantid"
	"leafwise/internal/domain/seasonal"
	"leafwise/internal/domain/story"
	"leafwise/internal/domain/sync"
)

type App struct {
	config        *config.Config
	log           *slog.Logger
	httpClient    *httpClient
	storage       *SQLiteStorage
	syncEngine    *SyncEngine
	state         *AppState
	authenticated bool
	deviceID      string
	mu            gosync.RWMutex
}

// AppState хранит состояние приложения между запусками
type AppState struct {
	Initialized  bool      `json:"initialized"`
	UserLogin    string    `json:"user_login"`
	DeviceID     string    `json:"device_id"`
	LastSync     time.Time `json:"last_sync"`
	SyncCursor   string    `json:"sync_cursor"`
	PlantsCached int       `json:"plants_cached"`
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	state, err := loadAppState(cfg)
	if err != nil {
		log.Warn("Не удалось загрузить состояние приложения", "error", err)
		state = &AppState{}
	}

	// Устройство получает постоянный ID при первом запуске
	if state.DeviceID == "" {
		state.DeviceID = uuid.NewString()
		state.Initialized = true
	}

	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации локального хранилища: %w", err)
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		storage:    storage,
		state:      state,
		deviceID:   state.DeviceID,
	}

	app.syncEngine = NewSyncEngine(app)

	if err := app.saveAppState(); err != nil {
		log.Warn("Не удалось сохранить состояние приложения", "error", err)
	}

	// Загружаем токен если он есть
	if token, err := app.GetToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		app.authenticated = true
		log.Debug("Токен загружен из файла")
	}

	return app, nil
}

func loadAppState(cfg *config.Config) (*AppState, error) {
	statePath := cfg.ConfigDir + "/state.json"

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return &AppState{}, nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, err
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (a *App) saveAppState() error {
	statePath := a.config.ConfigDir + "/state.json"
	data, err := json.MarshalIndent(a.state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(statePath, data, 0600)
}

// SaveToken сохраняет токен сессии в файл
func (a *App) SaveToken(token string) error {
	return os.WriteFile(a.config.TokenPath, []byte(token), 0600)
}

// GetToken читает токен сессии из файла
func (a *App) GetToken() (string, error) {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsAuthenticated проверяет наличие активной сессии
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// DeviceID возвращает постоянный идентификатор устройства
func (a *App) DeviceID() string {
	return a.deviceID
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// Register регистрирует пользователя на сервере
func (a *App) Register(ctx context.Context, login, password, displayName string) error {
	return a.httpClient.Register(ctx, login, password, displayName)
}

// Login выполняет вход и сохраняет токен
func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.httpClient.Login(ctx, login, password)
	if err != nil {
		return err
	}

	a.httpClient.SetToken(token)
	if err := a.SaveToken(token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.state.UserLogin = login
	a.mu.Unlock()

	if err := a.saveAppState(); err != nil {
		a.log.Warn("Не удалось сохранить состояние", "error", err)
	}

	return nil
}

// Logout сбрасывает сессию
func (a *App) Logout() error {
	a.mu.Lock()
	a.authenticated = false
	a.mu.Unlock()

	a.httpClient.SetToken("")
	return os.Remove(a.config.TokenPath)
}

// CreatePlant создает растение на сервере и кэширует его локально
func (a *App) CreatePlant(ctx context.Context, req plant.CreateRequest) (int, error) {
	id, err := a.httpClient.CreatePlant(ctx, req)
	if err != nil {
		return 0, err
	}

	cached := &CachedPlant{
		ID:           id,
		Name:         req.Name,
		Species:      req.Species,
		Location:     req.Location,
		Hemisphere:   req.Hemisphere,
		Notes:        req.Notes,
		Version:      1,
		LastModified: time.Now().UTC(),
	}
	if err := a.storage.SavePlant(cached); err != nil {
		a.log.Warn("Не удалось закэшировать растение", "plant_id", id, "error", err)
	}

	return id, nil
}

// Plants возвращает растения из локального кэша; при пустом кэше
// пытается обновиться с сервера
func (a *App) Plants(ctx context.Context) ([]*CachedPlant, error) {
	plants, err := a.storage.ListPlants()
	if err != nil {
		return nil, err
	}
	if len(plants) > 0 {
		return plants, nil
	}

	if err := a.RefreshPlants(ctx); err != nil {
		a.log.Debug("Кэш растений пуст, сервер недоступен", "error", err)
		return plants, nil
	}

	return a.storage.ListPlants()
}

// RefreshPlants обновляет локальный кэш растений с сервера
func (a *App) RefreshPlants(ctx context.Context) error {
	list, err := a.httpClient.ListPlants(ctx)
	if err != nil {
		return err
	}

	for i := range list.Plants {
		p := &list.Plants[i]
		cached := &CachedPlant{
			ID:           p.ID,
			Name:         p.Name,
			Species:      p.Species,
			Location:     p.Location,
			Hemisphere:   p.Hemisphere,
			Notes:        p.Notes,
			Version:      p.Version,
			LastModified: p.LastModified,
		}
		if err := a.storage.SavePlant(cached); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.state.PlantsCached = list.Total
	a.mu.Unlock()

	return a.saveAppState()
}

// CaptureReading записывает замер локально и ставит его в очередь;
// сервер увидит запись при ближайшей синхронизации
func (a *App) CaptureReading(plantID int, lux float64, colorTempK *int) (*LocalReading, error) {
	if plantID <= 0 {
		return nil, fmt.Errorf("не указано растение")
	}
	if lux < 0 {
		return nil, fmt.Errorf("освещенность не может быть отрицательной")
	}

	now := time.Now().UTC()
	reading := &LocalReading{
		ID:         uuid.NewString(),
		PlantID:    plantID,
		Lux:        lux,
		ColorTempK: colorTempK,
		MeasuredAt: now,
		DeviceID:   a.deviceID,
	}

	if err := a.storage.SaveReading(reading); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации замера: %w", err)
	}

	item := &QueueItem{
		ID:         reading.ID,
		Kind:       "light_reading",
		Payload:    payload,
		Version:    1,
		State:      StatePending,
		ModifiedAt: now,
		CreatedAt:  now,
	}
	if err := a.storage.Enqueue(item); err != nil {
		return nil, err
	}

	return reading, nil
}

// Readings возвращает локальную историю замеров растения
func (a *App) Readings(plantID, limit int) ([]*LocalReading, error) {
	if limit <= 0 {
		limit = 20
	}
	return a.storage.ListReadings(plantID, limit)
}

// Identify распознает растение по фотографии через сервер
func (a *App) Identify(ctx context.Context, req plantid.IdentifyRequest) (*plantid.Identification, error) {
	return a.httpClient.Identify(ctx, req)
}

// Forecast запрашивает сезонный прогноз ухода
func (a *App) Forecast(ctx context.Context, plantID int) (*seasonal.Forecast, error) {
	return a.httpClient.Forecast(ctx, plantID)
}

// Overlay запрашивает данные для AR-подсказок
func (a *App) Overlay(ctx context.Context, plantID int) (*seasonal.OverlayPayload, error) {
	return a.httpClient.Overlay(ctx, plantID)
}

// CreateStory публикует историю о растении
func (a *App) CreateStory(ctx context.Context, req story.CreateRequest) (string, error) {
	return a.httpClient.CreateStory(ctx, req)
}

// StoryFeed возвращает ленту актуальных историй
func (a *App) StoryFeed(ctx context.Context, cursor string, limit int) (*story.FeedResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	return a.httpClient.StoryFeed(ctx, cursor, limit)
}

// Sync запускает однократную синхронизацию
func (a *App) Sync(ctx context.Context) (*SyncResult, error) {
	return a.syncEngine.Sync(ctx)
}

// QueueSummary возвращает количество элементов очереди по состояниям
func (a *App) QueueSummary() (map[SyncState]int, error) {
	return a.storage.QueueCounts()
}

// ServerConflicts возвращает неразрешенные конфликты с сервера
func (a *App) ServerConflicts(ctx context.Context) ([]sync.Conflict, error) {
	return a.httpClient.Conflicts(ctx)
}

// ResolveConflict применяет стратегию разрешения конфликта на сервере
func (a *App) ResolveConflict(ctx context.Context, conflictID int, resolution string) error {
	_, err := a.httpClient.ResolveConflict(ctx, conflictID, sync.ResolveConflictRequest{Resolution: resolution})
	return err
}

// UserLogin возвращает логин текущего пользователя
func (a *App) UserLogin() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.UserLogin
}

// SyncEngine дает CLI доступ к статистике и автосинхронизации
func (a *App) SyncService() *SyncEngine {
	return a.syncEngine
}

// Close освобождает ресурсы клиента
func (a *App) Close() error {
	return a.storage.Close()
}

//учет домашних растений: профили, замеры освещенности, фотографии роста;
//24-часовые истории о растениях;
//распознавание вида по фотографии и сезонные прогнозы ухода;
//синхронизация данных между устройствами одного владельца.

//POST /user/register                        # Регистрация (публичный)
//POST /user/login                           # Логин (публичный)
//GET/POST /api/v1/plants                    # Растения (auth)
//GET  /api/v1/plants/search                 # Поиск растений
//GET/PUT/DELETE /api/v1/plants/{id}         # Профиль растения
//GET  /api/v1/plants/{id}/forecast          # Сезонный прогноз
//GET  /api/v1/plants/{id}/overlay           # Данные для AR-подсказок
//GET/POST /api/v1/telemetry/light           # Замеры освещенности
//POST /api/v1/telemetry/light/batch         # Пакет замеров
//GET/POST /api/v1/telemetry/photos          # Фотографии роста
//GET  /api/v1/telemetry/photos/{id}/content # Байты фотографии
//GET/POST /api/v1/stories                   # Истории
//GET/DELETE /api/v1/stories/{id}            # Просмотр/удаление истории
//POST /api/v1/identify                      # Распознавание растения
//GET  /api/v1/identify/history              # История распознаваний
//POST /api/v1/sync/changes|batch            # Синхронизация
//GET  /api/v1/sync/status|conflicts|devices # Состояние синхронизации

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	healthAPI "leafwise/internal/app/server/api/http/health"
	"leafwise/internal/app/server/api/http/middleware"
	"leafwise/internal/app/server/api/http/middleware/auth"
	"leafwise/internal/app/server/api/http/middleware/logger"
	plantAPI "leafwise/internal/app/server/api/http/plant"
	plantidAPI "leafwise/internal/app/server/api/http/plantid"
	seasonalAPI "leafwise/internal/app/server/api/http/seasonal"
	storyAPI "leafwise/internal/app/server/api/http/story"
	syncAPI "leafwise/internal/app/server/api/http/sync"
	telemetryAPI "leafwise/internal/app/server/api/http/telemetry"
	userAPI "leafwise/internal/app/server/api/http/user"
	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/plantid"
	"leafwise/internal/domain/seasonal"
	"leafwise/internal/domain/session"
	"leafwise/internal/domain/story"
	"leafwise/internal/domain/sync"
	"leafwise/internal/domain/telemetry"
	"leafwise/internal/domain/user"
	"leafwise/internal/infrastructure/ai"
	"leafwise/internal/infrastructure/storage/objectstore"
	"leafwise/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health    *healthAPI.Handler
	User      *userAPI.Handler
	Plant     *plantAPI.Handler
	Telemetry *telemetryAPI.Handler
	Story     *storyAPI.Handler
	PlantID   *plantidAPI.Handler
	Seasonal  *seasonalAPI.Handler
	Sync      *syncAPI.Handler
}

// New создает *chi.Mux со ВСЕМИ операциями через huma.Register
func New(storage *postgres.Storage, objects *objectstore.Store, model *ai.Client, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("LeafWise API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, objects, model, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Plant.SetupRoutes(API)
	h.Telemetry.SetupRoutes(API)
	h.Story.SetupRoutes(API)
	h.PlantID.SetupRoutes(API)
	h.Seasonal.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, objects *objectstore.Store, model *ai.Client, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	plantRepo := postgres.NewPlantRepository(storage, log)
	plantService := plant.NewService(plantRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	plantHandler := plantAPI.NewHandler(plantService, log, middlewares.GetAllAndClear())

	telemetryRepo := postgres.NewTelemetryRepository(storage, log)
	telemetryService := telemetry.NewService(telemetryRepo, objects, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	telemetryHandler := telemetryAPI.NewHandler(telemetryService, log, middlewares.GetAllAndClear())

	storyRepo := postgres.NewStoryRepository(storage, log)
	storyService := story.NewService(storyRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	storyHandler := storyAPI.NewHandler(storyService, log, middlewares.GetAllAndClear())

	plantidRepo := postgres.NewPlantIDRepository(storage, log)
	plantidService := plantid.NewService(plantidRepo, model, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	plantidHandler := plantidAPI.NewHandler(plantidService, log, middlewares.GetAllAndClear())

	seasonalRepo := postgres.NewSeasonalRepository(storage, log)
	seasonalService := seasonal.NewService(seasonalRepo, model, plantRepo, telemetryRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	seasonalHandler := seasonalAPI.NewHandler(seasonalService, log, middlewares.GetAllAndClear())

	syncRepo := postgres.NewSyncRepository(storage, log)
	syncService := sync.NewService(syncRepo, log, nil)
	// принятые пакетом записи уходят в свои домены, а не в голую ленту
	syncService.RegisterApplier(sync.KindLightReading, sync.NewReadingApplier(telemetryService))
	syncService.RegisterApplier(sync.KindGrowthPhoto, sync.NewPhotoApplier(telemetryService))
	syncService.RegisterApplier(sync.KindPlant, sync.NewPlantApplier(plantService))
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:    healthHandler,
		User:      userHandler,
		Plant:     plantHandler,
		Telemetry: telemetryHandler,
		Story:     storyHandler,
		PlantID:   plantidHandler,
		Seasonal:  seasonalHandler,
		Sync:      syncHandler,
	}
}

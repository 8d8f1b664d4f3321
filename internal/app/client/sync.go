package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"leafwise/internal/domain/sync"
)

// SyncEngine управляет очередью синхронизации между клиентом и сервером
type SyncEngine struct {
	app       *App
	log       *slog.Logger
	config    *SyncConfig
	mu        gosync.RWMutex
	lastSync  time.Time
	isSyncing bool
	stats     *SyncStats
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	Enabled          bool          `json:"enabled"`
	Interval         time.Duration `json:"interval"`
	MinInterval      time.Duration `json:"min_interval"`
	BatchSize        int           `json:"batch_size"`
	MaxAttempts      int           `json:"max_attempts"`
	RetryBase        time.Duration `json:"retry_base"`
	RetryMax         time.Duration `json:"retry_max"`
	ConflictStrategy string        `json:"conflict_strategy"` // client, server, newer, manual
	AutoResolve      bool          `json:"auto_resolve"`
	RetentionDays    int           `json:"retention_days"`
}

// SyncStats статистика синхронизации, сохраняется между запусками
type SyncStats struct {
	TotalSyncs      int       `json:"total_syncs"`
	LastSuccessful  time.Time `json:"last_successful"`
	LastFailed      time.Time `json:"last_failed"`
	TotalUploaded   int       `json:"total_uploaded"`
	TotalDownloaded int       `json:"total_downloaded"`
	TotalConflicts  int       `json:"total_conflicts"`
	TotalResolved   int       `json:"total_resolved"`
	TotalErrors     int       `json:"total_errors"`
}

// SyncError ошибка обработки одного элемента очереди
type SyncError struct {
	RecordID  string    `json:"record_id"`
	Error     string    `json:"error"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncResult результат одного прохода синхронизации
type SyncResult struct {
	Success    bool          `json:"success"`
	Uploaded   int           `json:"uploaded"`
	Downloaded int           `json:"downloaded"`
	Conflicts  int           `json:"conflicts"`
	Resolved   int           `json:"resolved"`
	Errors     []SyncError   `json:"errors"`
	Duration   time.Duration `json:"duration"`
	StartTime  time.Time     `json:"start_time"`
}

// NewSyncEngine создает движок синхронизации
func NewSyncEngine(app *App) *SyncEngine {
	defaultConfig := &SyncConfig{
		Enabled:          true,
		Interval:         time.Duration(app.config.SyncInterval) * time.Second,
		MinInterval:      5 * time.Second,
		BatchSize:        100,
		MaxAttempts:      5,
		RetryBase:        5 * time.Second,
		RetryMax:         10 * time.Minute,
		ConflictStrategy: sync.ResolutionNewer,
		AutoResolve:      true,
		RetentionDays:    7,
	}

	if saved, err := loadSyncConfig(app.config.ConfigDir); err == nil {
		mergeConfigs(defaultConfig, saved)
	}

	engine := &SyncEngine{
		app:    app,
		log:    app.log,
		config: defaultConfig,
		stats:  &SyncStats{},
	}

	if stats, err := engine.loadStats(); err == nil {
		engine.stats = stats
	}

	return engine
}

// nextRetryDelay считает паузу перед следующей попыткой:
// base * 2^attempts с верхней границей
func (s *SyncEngine) nextRetryDelay(attempts int) time.Duration {
	delay := s.config.RetryBase
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= s.config.RetryMax {
			return s.config.RetryMax
		}
	}
	return delay
}

// Sync выполняет один проход: отправка очереди, забор изменений,
// разрешение конфликтов, очистка
func (s *SyncEngine) Sync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, fmt.Errorf("синхронизация уже выполняется")
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	result := &SyncResult{StartTime: time.Now()}

	// прошлый проход мог оборваться между пометкой и отправкой
	if n, err := s.app.storage.RecoverInProgress(); err != nil {
		s.log.Warn("Не удалось вернуть зависшие элементы очереди", "error", err)
	} else if n > 0 {
		s.log.Debug("Зависшие элементы возвращены в очередь", "count", n)
	}

	if err := s.preSyncChecks(ctx); err != nil {
		result.Errors = append(result.Errors, SyncError{
			Error:     err.Error(),
			Operation: "pre_sync_check",
			Timestamp: time.Now(),
		})
		s.updateStats(result)
		return result, err
	}

	uploaded, syncedIDs, uploadErrors := s.uploadQueue(ctx)
	result.Uploaded = uploaded
	result.Errors = append(result.Errors, uploadErrors...)

	conflicts, resolved := s.handleConflicts(ctx, result, syncedIDs)
	result.Conflicts = conflicts
	result.Resolved = resolved

	downloaded, downloadErrors := s.downloadChanges(ctx)
	result.Downloaded = downloaded
	result.Errors = append(result.Errors, downloadErrors...)

	// Ретеншн: успешно отправленные элементы старше N дней не нужны
	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
	if n, err := s.app.storage.DeleteSyncedBefore(cutoff); err != nil {
		s.log.Warn("Очистка очереди не удалась", "error", err)
	} else if n > 0 {
		s.log.Debug("Очередь очищена", "deleted", n)
	}

	result.Success = len(result.Errors) == 0
	result.Duration = time.Since(result.StartTime)

	s.mu.Lock()
	s.lastSync = time.Now()
	s.mu.Unlock()

	s.updateStats(result)
	return result, nil
}

// preSyncChecks проверяет условия синхронизации: аутентификация,
// доступность сервера, минимальный интервал между проходами
func (s *SyncEngine) preSyncChecks(ctx context.Context) error {
	if !s.config.Enabled {
		return fmt.Errorf("синхронизация отключена в настройках")
	}

	if !s.app.IsAuthenticated() {
		return fmt.Errorf("требуется аутентификация")
	}

	s.mu.RLock()
	last := s.lastSync
	s.mu.RUnlock()
	if !last.IsZero() && time.Since(last) < s.config.MinInterval {
		return fmt.Errorf("слишком частые попытки синхронизации")
	}

	if err := s.app.httpClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}

	return nil
}

// uploadQueue отправляет готовые элементы очереди пакетами; вторым
// значением возвращает id помеченных synced записей этого прохода,
// чтобы handleConflicts вычел из счетчика конфликтные
func (s *SyncEngine) uploadQueue(ctx context.Context) (int, map[string]struct{}, []SyncError) {
	var uploaded int
	var errs []SyncError
	syncedIDs := make(map[string]struct{})

	for {
		items, err := s.app.storage.DueItems(time.Now().UTC(), s.config.BatchSize)
		if err != nil {
			errs = append(errs, SyncError{Error: err.Error(), Operation: "queue_read", Timestamp: time.Now()})
			return uploaded, syncedIDs, errs
		}
		if len(items) == 0 {
			return uploaded, syncedIDs, errs
		}

		req := sync.BatchSyncRequest{DeviceID: s.app.deviceID}
		for _, item := range items {
			if err := s.app.storage.MarkState(item.ID, StateInProgress, ""); err != nil {
				s.log.Warn("Не удалось пометить элемент", "id", item.ID, "error", err)
			}
			req.Records = append(req.Records, sync.SyncRecord{
				ID:         item.ID,
				Kind:       sync.RecordKind(item.Kind),
				Payload:    item.Payload,
				Version:    item.Version,
				Deleted:    item.Deleted,
				ModifiedAt: item.ModifiedAt,
				DeviceID:   s.app.deviceID,
			})
		}

		resp, err := s.app.httpClient.SyncBatch(ctx, req)
		if err != nil {
			// весь пакет не дошел — планируем повтор каждому элементу
			for _, item := range items {
				s.scheduleRetry(item, err.Error())
			}
			errs = append(errs, SyncError{Error: err.Error(), Operation: "upload_batch", Timestamp: time.Now()})
			return uploaded, syncedIDs, errs
		}

		failedIDs := make(map[string]string, len(resp.Errors))
		for _, recErr := range resp.Errors {
			failedIDs[recErr.RecordID] = recErr.Error
		}

		for _, item := range items {
			if msg, failed := failedIDs[item.ID]; failed {
				s.scheduleRetry(item, msg)
				errs = append(errs, SyncError{RecordID: item.ID, Error: msg, Operation: "upload", Timestamp: time.Now()})
				continue
			}
			// конфликтные элементы пометит handleConflicts по списку с сервера
			if err := s.app.storage.MarkState(item.ID, StateSynced, ""); err != nil {
				s.log.Warn("Не удалось пометить элемент синхронизированным", "id", item.ID, "error", err)
				continue
			}
			syncedIDs[item.ID] = struct{}{}
			uploaded++
		}

		if len(items) < s.config.BatchSize {
			return uploaded, syncedIDs, errs
		}
	}
}

// discountConflicted убирает из счетчика отправленных записи, которые
// сервер на самом деле отложил как конфликтные
func discountConflicted(uploaded int, syncedIDs map[string]struct{}, conflicts []sync.Conflict) int {
	for _, c := range conflicts {
		if _, ok := syncedIDs[c.RecordID]; ok {
			delete(syncedIDs, c.RecordID)
			uploaded--
		}
	}
	if uploaded < 0 {
		uploaded = 0
	}
	return uploaded
}

// scheduleRetry применяет экспоненциальную паузу; после исчерпания
// попыток элемент остается в терминальном failed
func (s *SyncEngine) scheduleRetry(item *QueueItem, reason string) {
	attempts := item.Attempts + 1
	if attempts >= s.config.MaxAttempts {
		if err := s.app.storage.MarkState(item.ID, StateFailed, reason); err != nil {
			s.log.Warn("Не удалось пометить элемент неудачным", "id", item.ID, "error", err)
		}
		s.log.Warn("Элемент очереди исчерпал попытки", "id", item.ID, "attempts", attempts)
		return
	}

	nextRetry := time.Now().UTC().Add(s.nextRetryDelay(attempts))
	if err := s.app.storage.ScheduleRetry(item.ID, attempts, nextRetry, reason); err != nil {
		s.log.Warn("Не удалось запланировать повтор", "id", item.ID, "error", err)
	}
}

// handleConflicts забирает конфликты с сервера, помечает локальные
// элементы и, если включено авторазрешение, применяет стратегию
func (s *SyncEngine) handleConflicts(ctx context.Context, result *SyncResult, syncedIDs map[string]struct{}) (int, int) {
	conflicts, err := s.app.httpClient.Conflicts(ctx)
	if err != nil {
		result.Errors = append(result.Errors, SyncError{Error: err.Error(), Operation: "conflicts_fetch", Timestamp: time.Now()})
		return 0, 0
	}
	if len(conflicts) == 0 {
		return 0, 0
	}

	result.Uploaded = discountConflicted(result.Uploaded, syncedIDs, conflicts)

	var resolved int
	for _, c := range conflicts {
		if err := s.app.storage.MarkState(c.RecordID, StateConflict, c.ConflictType); err != nil {
			s.log.Debug("Конфликт не из локальной очереди", "record_id", c.RecordID)
		}

		if !s.config.AutoResolve || s.config.ConflictStrategy == sync.ResolutionManual {
			continue
		}

		_, err := s.app.httpClient.ResolveConflict(ctx, c.ID, sync.ResolveConflictRequest{
			Resolution: s.config.ConflictStrategy,
		})
		if err != nil {
			result.Errors = append(result.Errors, SyncError{
				RecordID:  c.RecordID,
				Error:     err.Error(),
				Operation: "conflict_resolve",
				Timestamp: time.Now(),
			})
			continue
		}

		if err := s.app.storage.MarkState(c.RecordID, StateSynced, ""); err == nil {
			resolved++
		}
	}

	return len(conflicts), resolved
}

// downloadChanges забирает изменения с сервера постранично и применяет
// их к локальному кэшу
func (s *SyncEngine) downloadChanges(ctx context.Context) (int, []SyncError) {
	var downloaded int
	var errs []SyncError
	var serverTime time.Time

	cursor := s.app.state.SyncCursor
	for {
		resp, err := s.app.httpClient.GetChanges(ctx, sync.GetChangesRequest{
			Cursor: cursor,
			Since:  s.app.state.LastSync,
			Limit:  s.config.BatchSize,
		})
		if err != nil {
			errs = append(errs, SyncError{Error: err.Error(), Operation: "download", Timestamp: time.Now()})
			return downloaded, errs
		}
		serverTime = resp.ServerTime

		for i := range resp.Records {
			if err := s.applyServerRecord(&resp.Records[i]); err != nil {
				errs = append(errs, SyncError{
					RecordID:  resp.Records[i].ID,
					Error:     err.Error(),
					Operation: "apply",
					Timestamp: time.Now(),
				})
				continue
			}
			downloaded++
		}

		cursor = resp.NextCursor
		if !resp.HasMore {
			break
		}
	}

	s.app.mu.Lock()
	s.app.state.SyncCursor = cursor
	// окно Since отсчитывается по серверным часам, чтобы уход локальных
	// не прятал чужие изменения
	s.app.state.LastSync = syncTimestamp(serverTime)
	s.app.mu.Unlock()
	if err := s.app.saveAppState(); err != nil {
		s.log.Warn("Не удалось сохранить позицию синхронизации", "error", err)
	}

	return downloaded, errs
}

// syncTimestamp выбирает отметку для следующего окна Since: серверную,
// если сервер ее прислал
func syncTimestamp(serverTime time.Time) time.Time {
	if serverTime.IsZero() {
		return time.Now().UTC()
	}
	return serverTime.UTC()
}

// applyServerRecord применяет серверную запись к локальному кэшу
func (s *SyncEngine) applyServerRecord(rec *sync.SyncRecord) error {
	switch rec.Kind {
	case sync.KindPlant:
		var p CachedPlant
		if err := json.Unmarshal(rec.Payload, &p); err != nil {
			return fmt.Errorf("ошибка разбора растения: %w", err)
		}
		if rec.Deleted {
			return s.app.storage.DeletePlant(p.ID)
		}
		p.Version = rec.Version
		p.LastModified = rec.ModifiedAt
		return s.app.storage.SavePlant(&p)
	case sync.KindLightReading:
		var r LocalReading
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return fmt.Errorf("ошибка разбора замера: %w", err)
		}
		return s.app.storage.SaveReading(&r)
	default:
		// фотографии и истории с других устройств локально не кэшируются
		return nil
	}
}

func (s *SyncEngine) updateStats(result *SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalSyncs++
	s.stats.TotalUploaded += result.Uploaded
	s.stats.TotalDownloaded += result.Downloaded
	s.stats.TotalConflicts += result.Conflicts
	s.stats.TotalResolved += result.Resolved
	s.stats.TotalErrors += len(result.Errors)

	if result.Success {
		s.stats.LastSuccessful = time.Now()
	} else {
		s.stats.LastFailed = time.Now()
	}

	s.saveStats()
}

// StartAutoSync запускает периодическую синхронизацию до отмены ctx
func (s *SyncEngine) StartAutoSync(ctx context.Context) {
	if !s.config.Enabled {
		return
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.log.Debug("Автосинхронизация пропущена", "error", err)
			}
		}
	}
}

// GetStats возвращает копию статистики
func (s *SyncEngine) GetStats() SyncStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.stats
}

// IsSyncing сообщает, идет ли синхронизация прямо сейчас
func (s *SyncEngine) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// Config возвращает действующую конфигурацию синхронизации
func (s *SyncEngine) Config() SyncConfig {
	return *s.config
}

func (s *SyncEngine) statsPath() string {
	return s.app.config.ConfigDir + "/sync_stats.json"
}

func (s *SyncEngine) loadStats() (*SyncStats, error) {
	data, err := os.ReadFile(s.statsPath())
	if err != nil {
		return nil, err
	}

	var stats SyncStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *SyncEngine) saveStats() {
	data, err := json.MarshalIndent(s.stats, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(s.statsPath(), data, 0600); err != nil {
		s.log.Debug("Не удалось сохранить статистику", "error", err)
	}
}

func loadSyncConfig(configDir string) (*SyncConfig, error) {
	data, err := os.ReadFile(configDir + "/sync_config.json")
	if err != nil {
		return nil, err
	}

	var cfg SyncConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func mergeConfigs(defaultConfig, userConfig *SyncConfig) {
	if userConfig.Interval > 0 {
		defaultConfig.Interval = userConfig.Interval
	}
	if userConfig.BatchSize > 0 {
		defaultConfig.BatchSize = userConfig.BatchSize
	}
	if userConfig.MaxAttempts > 0 {
		defaultConfig.MaxAttempts = userConfig.MaxAttempts
	}
	if userConfig.RetryBase > 0 {
		defaultConfig.RetryBase = userConfig.RetryBase
	}
	if userConfig.RetryMax > 0 {
		defaultConfig.RetryMax = userConfig.RetryMax
	}
	if userConfig.ConflictStrategy != "" {
		defaultConfig.ConflictStrategy = userConfig.ConflictStrategy
	}
	if userConfig.RetentionDays > 0 {
		defaultConfig.RetentionDays = userConfig.RetentionDays
	}
}

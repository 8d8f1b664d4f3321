package client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sync_queue (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			deleted BOOLEAN NOT NULL DEFAULT 0,
			state TEXT NOT NULL DEFAULT 'pending',
			attempts INTEGER NOT NULL DEFAULT 0,
			next_retry_at DATETIME NOT NULL DEFAULT '0001-01-01T00:00:00Z',
			last_error TEXT NOT NULL DEFAULT '',
			modified_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_queue_state ON sync_queue(state, next_retry_at);

		CREATE TABLE IF NOT EXISTS plants (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			species TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			hemisphere TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 1,
			last_modified DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			plant_id INTEGER NOT NULL,
			lux REAL NOT NULL,
			color_temp_k INTEGER,
			measured_at DATETIME NOT NULL,
			device_id TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_readings_plant ON readings(plant_id, measured_at);

		CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			plant_id INTEGER NOT NULL,
			task TEXT NOT NULL,
			interval_days INTEGER NOT NULL,
			next_due DATETIME NOT NULL,
			last_done DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(next_due);
	`)

	return err
}

// Enqueue ставит запись в очередь синхронизации; повторная постановка
// той же записи перезаписывает элемент и сбрасывает счетчик попыток
func (s *SQLiteStorage) Enqueue(item *QueueItem) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_queue (id, kind, payload, version, deleted, state,
		                        attempts, next_retry_at, last_error, modified_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, '', ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			version = excluded.version,
			deleted = excluded.deleted,
			state = excluded.state,
			attempts = 0,
			next_retry_at = excluded.next_retry_at,
			last_error = '',
			modified_at = excluded.modified_at
	`, item.ID, item.Kind, string(item.Payload), item.Version, item.Deleted,
		StatePending, time.Time{}.Format(time.RFC3339), item.ModifiedAt.Format(time.RFC3339),
		item.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ошибка постановки в очередь: %w", err)
	}

	return nil
}

// DueItems возвращает элементы, готовые к отправке: новые и те, чья
// пауза после неудачи уже истекла
func (s *SQLiteStorage) DueItems(now time.Time, limit int) ([]*QueueItem, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, payload, version, deleted, state, attempts,
		       next_retry_at, last_error, modified_at, created_at
		FROM sync_queue
		WHERE state = ? OR (state = ? AND next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`, StatePending, StateRetryScheduled, now.Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки очереди: %w", err)
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *SQLiteStorage) GetQueueItem(id string) (*QueueItem, error) {
	row := s.db.QueryRow(`
		SELECT id, kind, payload, version, deleted, state, attempts,
		       next_retry_at, last_error, modified_at, created_at
		FROM sync_queue WHERE id = ?
	`, id)

	item, err := scanQueueItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("элемент очереди не найден: %s", id)
	}
	return item, err
}

// RecoverInProgress возвращает в pending элементы, зависшие в
// in_progress после прерванной синхронизации; иначе они навсегда
// выпадают из выборки DueItems
func (s *SQLiteStorage) RecoverInProgress() (int64, error) {
	res, err := s.db.Exec(`
		UPDATE sync_queue SET state = ? WHERE state = ?
	`, StatePending, StateInProgress)
	if err != nil {
		return 0, fmt.Errorf("ошибка восстановления очереди: %w", err)
	}

	return res.RowsAffected()
}

func (s *SQLiteStorage) MarkState(id string, state SyncState, lastError string) error {
	_, err := s.db.Exec(`
		UPDATE sync_queue SET state = ?, last_error = ? WHERE id = ?
	`, state, lastError, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления состояния: %w", err)
	}

	return nil
}

// ScheduleRetry переводит элемент в retry_scheduled с новым временем
// следующей попытки
func (s *SQLiteStorage) ScheduleRetry(id string, attempts int, nextRetryAt time.Time, lastError string) error {
	_, err := s.db.Exec(`
		UPDATE sync_queue
		SET state = ?, attempts = ?, next_retry_at = ?, last_error = ?
		WHERE id = ?
	`, StateRetryScheduled, attempts, nextRetryAt.Format(time.RFC3339), lastError, id)
	if err != nil {
		return fmt.Errorf("ошибка планирования повтора: %w", err)
	}

	return nil
}

// DeleteSyncedBefore удаляет успешно синхронизированные элементы,
// созданные раньше cutoff
func (s *SQLiteStorage) DeleteSyncedBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM sync_queue WHERE state = ? AND created_at < ?
	`, StateSynced, cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки очереди: %w", err)
	}

	return res.RowsAffected()
}

// QueueCounts возвращает количество элементов по состояниям
func (s *SQLiteStorage) QueueCounts() (map[SyncState]int, error) {
	rows, err := s.db.Query(`SELECT state, COUNT(*) FROM sync_queue GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета очереди: %w", err)
	}
	defer rows.Close()

	counts := make(map[SyncState]int)
	for rows.Next() {
		var state SyncState
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		counts[state] = n
	}

	return counts, rows.Err()
}

func (s *SQLiteStorage) SavePlant(p *CachedPlant) error {
	_, err := s.db.Exec(`
		INSERT INTO plants (id, name, species, location, hemisphere, notes, version, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			species = excluded.species,
			location = excluded.location,
			hemisphere = excluded.hemisphere,
			notes = excluded.notes,
			version = excluded.version,
			last_modified = excluded.last_modified
	`, p.ID, p.Name, p.Species, p.Location, p.Hemisphere, p.Notes,
		p.Version, p.LastModified.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ошибка сохранения растения: %w", err)
	}

	return nil
}

// DeletePlant убирает растение из кэша; приходит с лентой изменений,
// когда профиль удален на другом устройстве
func (s *SQLiteStorage) DeletePlant(id int) error {
	_, err := s.db.Exec(`DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления растения: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) GetPlant(id int) (*CachedPlant, error) {
	var p CachedPlant
	var lastModified string

	err := s.db.QueryRow(`
		SELECT id, name, species, location, hemisphere, notes, version, last_modified
		FROM plants WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Species, &p.Location, &p.Hemisphere,
		&p.Notes, &p.Version, &lastModified)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("растение не найдено: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения растения: %w", err)
	}

	p.LastModified, _ = time.Parse(time.RFC3339, lastModified)
	return &p, nil
}

func (s *SQLiteStorage) ListPlants() ([]*CachedPlant, error) {
	rows, err := s.db.Query(`
		SELECT id, name, species, location, hemisphere, notes, version, last_modified
		FROM plants ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки растений: %w", err)
	}
	defer rows.Close()

	var plants []*CachedPlant
	for rows.Next() {
		var p CachedPlant
		var lastModified string
		if err := rows.Scan(&p.ID, &p.Name, &p.Species, &p.Location,
			&p.Hemisphere, &p.Notes, &p.Version, &lastModified); err != nil {
			return nil, fmt.Errorf("ошибка сканирования растения: %w", err)
		}
		p.LastModified, _ = time.Parse(time.RFC3339, lastModified)
		plants = append(plants, &p)
	}

	return plants, rows.Err()
}

func (s *SQLiteStorage) SaveReading(r *LocalReading) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO readings (id, plant_id, lux, color_temp_k, measured_at, device_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.PlantID, r.Lux, r.ColorTempK, r.MeasuredAt.Format(time.RFC3339), r.DeviceID)
	if err != nil {
		return fmt.Errorf("ошибка сохранения замера: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) ListReadings(plantID, limit int) ([]*LocalReading, error) {
	rows, err := s.db.Query(`
		SELECT id, plant_id, lux, color_temp_k, measured_at, device_id
		FROM readings WHERE plant_id = ?
		ORDER BY measured_at DESC LIMIT ?
	`, plantID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки замеров: %w", err)
	}
	defer rows.Close()

	var readings []*LocalReading
	for rows.Next() {
		var r LocalReading
		var measuredAt string
		if err := rows.Scan(&r.ID, &r.PlantID, &r.Lux, &r.ColorTempK,
			&measuredAt, &r.DeviceID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования замера: %w", err)
		}
		r.MeasuredAt, _ = time.Parse(time.RFC3339, measuredAt)
		readings = append(readings, &r)
	}

	return readings, rows.Err()
}

func (s *SQLiteStorage) SaveReminder(r *Reminder) error {
	_, err := s.db.Exec(`
		INSERT INTO reminders (id, plant_id, task, interval_days, next_due, last_done, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task = excluded.task,
			interval_days = excluded.interval_days,
			next_due = excluded.next_due,
			last_done = excluded.last_done
	`, r.ID, r.PlantID, r.Task, r.IntervalDays,
		r.NextDue.Format(time.RFC3339), r.LastDone.Format(time.RFC3339),
		r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ошибка сохранения напоминания: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) GetReminder(id string) (*Reminder, error) {
	row := s.db.QueryRow(`
		SELECT id, plant_id, task, interval_days, next_due, last_done, created_at
		FROM reminders WHERE id = ?
	`, id)

	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("напоминание не найдено: %s", id)
	}
	return r, err
}

// DueReminders возвращает задачи по уходу, срок которых наступил
func (s *SQLiteStorage) DueReminders(now time.Time) ([]*Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, plant_id, task, interval_days, next_due, last_done, created_at
		FROM reminders WHERE next_due <= ?
		ORDER BY next_due
	`, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки напоминаний: %w", err)
	}
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

func (s *SQLiteStorage) ListReminders() ([]*Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, plant_id, task, interval_days, next_due, last_done, created_at
		FROM reminders ORDER BY next_due
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки напоминаний: %w", err)
	}
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}

	return reminders, rows.Err()
}

func (s *SQLiteStorage) DeleteReminder(id string) error {
	if _, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ошибка удаления напоминания: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanQueueItem(row interface{ Scan(dest ...interface{}) error }) (*QueueItem, error) {
	var item QueueItem
	var payload, nextRetryAt, modifiedAt, createdAt string

	err := row.Scan(&item.ID, &item.Kind, &payload, &item.Version, &item.Deleted,
		&item.State, &item.Attempts, &nextRetryAt, &item.LastError,
		&modifiedAt, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка сканирования элемента очереди: %w", err)
	}

	item.Payload = []byte(payload)
	item.NextRetryAt, _ = time.Parse(time.RFC3339, nextRetryAt)
	item.ModifiedAt, _ = time.Parse(time.RFC3339, modifiedAt)
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &item, nil
}

func scanReminder(row interface{ Scan(dest ...interface{}) error }) (*Reminder, error) {
	var r Reminder
	var nextDue, lastDone, createdAt string

	err := row.Scan(&r.ID, &r.PlantID, &r.Task, &r.IntervalDays,
		&nextDue, &lastDone, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("ошибка сканирования напоминания: %w", err)
	}

	r.NextDue, _ = time.Parse(time.RFC3339, nextDue)
	r.LastDone, _ = time.Parse(time.RFC3339, lastDone)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &r, nil
}

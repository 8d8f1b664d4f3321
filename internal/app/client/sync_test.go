package client

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafwise/internal/domain/sync"
)

func TestNextRetryDelay(t *testing.T) {
	engine := &SyncEngine{
		config: &SyncConfig{
			RetryBase: 5 * time.Second,
			RetryMax:  10 * time.Minute,
		},
	}

	tests := []struct {
		name     string
		attempts int
		want     time.Duration
	}{
		{
			name:     "первая попытка без паузы сверх базы",
			attempts: 0,
			want:     5 * time.Second,
		},
		{
			name:     "вторая попытка удваивает базу",
			attempts: 1,
			want:     10 * time.Second,
		},
		{
			name:     "четвертая попытка",
			attempts: 3,
			want:     40 * time.Second,
		},
		{
			name:     "рост ограничен максимумом",
			attempts: 7,
			want:     10 * time.Minute,
		},
		{
			name:     "далеко за пределом не переполняется",
			attempts: 60,
			want:     10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.nextRetryDelay(tt.attempts))
		})
	}
}

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	return storage
}

func testQueueItem(id string) *QueueItem {
	now := time.Now().UTC().Truncate(time.Second)
	payload, _ := json.Marshal(map[string]any{"plant_id": 1, "lux": 1200.0})

	return &QueueItem{
		ID:         id,
		Kind:       "light_reading",
		Payload:    payload,
		Version:    1,
		State:      StatePending,
		ModifiedAt: now,
		CreatedAt:  now,
	}
}

func TestQueueLifecycle(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now().UTC()

	item := testQueueItem("rec-1")
	require.NoError(t, storage.Enqueue(item))

	// новый элемент готов к отправке сразу
	due, err := storage.DueItems(now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "rec-1", due[0].ID)
	assert.Equal(t, StatePending, due[0].State)

	// повтор запланирован в будущем — элемент не выбирается
	require.NoError(t, storage.ScheduleRetry("rec-1", 1, now.Add(time.Hour), "сервер недоступен"))

	due, err = storage.DueItems(now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	// после наступления срока элемент снова готов
	due, err = storage.DueItems(now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, StateRetryScheduled, due[0].State)
	assert.Equal(t, 1, due[0].Attempts)
	assert.Equal(t, "сервер недоступен", due[0].LastError)

	// успешная отправка выводит элемент из очереди выборки
	require.NoError(t, storage.MarkState("rec-1", StateSynced, ""))

	due, err = storage.DueItems(now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	counts, err := storage.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StateSynced])

	// ретеншн удаляет только синхронизированные
	deleted, err := storage.DeleteSyncedBefore(now.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = storage.GetQueueItem("rec-1")
	assert.Error(t, err)
}

func TestEnqueueResetsAttempts(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now().UTC()

	item := testQueueItem("rec-2")
	require.NoError(t, storage.Enqueue(item))
	require.NoError(t, storage.ScheduleRetry("rec-2", 3, now.Add(time.Hour), "ошибка"))

	// повторное изменение записи сбрасывает счетчик попыток
	item.Version = 2
	require.NoError(t, storage.Enqueue(item))

	got, err := storage.GetQueueItem("rec-2")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, StatePending, got.State)
	assert.Equal(t, 2, got.Version)
}

func TestRecoverInProgressReturnsStrandedItems(t *testing.T) {
	storage := newTestStorage(t)
	now := time.Now().UTC()

	require.NoError(t, storage.Enqueue(testQueueItem("stuck-1")))
	require.NoError(t, storage.MarkState("stuck-1", StateInProgress, ""))

	// элемент, зависший после обрыва, не попадает в выборку
	due, err := storage.DueItems(now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	n, err := storage.RecoverInProgress()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	due, err = storage.DueItems(now, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "stuck-1", due[0].ID)
	assert.Equal(t, StatePending, due[0].State)
}

func TestRecoverInProgressLeavesOtherStates(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Enqueue(testQueueItem("done-1")))
	require.NoError(t, storage.MarkState("done-1", StateSynced, ""))

	require.NoError(t, storage.Enqueue(testQueueItem("bad-1")))
	require.NoError(t, storage.MarkState("bad-1", StateFailed, "попытки исчерпаны"))

	n, err := storage.RecoverInProgress()
	require.NoError(t, err)
	assert.Zero(t, n)

	counts, err := storage.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StateSynced])
	assert.Equal(t, 1, counts[StateFailed])
}

func TestSyncTimestampPrefersServerClock(t *testing.T) {
	server := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, server, syncTimestamp(server))

	// без серверной отметки остаются локальные часы
	got := syncTimestamp(time.Time{})
	assert.WithinDuration(t, time.Now().UTC(), got, time.Minute)
}

func TestDiscountConflicted(t *testing.T) {
	syncedIDs := map[string]struct{}{"a": {}, "b": {}, "c": {}}
	conflicts := []sync.Conflict{
		{RecordID: "b"},
		{RecordID: "old-conflict"}, // из прошлого прохода, счетчик не трогает
	}

	got := discountConflicted(3, syncedIDs, conflicts)
	assert.Equal(t, 2, got)
	assert.NotContains(t, syncedIDs, "b")
	assert.Contains(t, syncedIDs, "a")
}

func TestDiscountConflictedNeverNegative(t *testing.T) {
	syncedIDs := map[string]struct{}{"a": {}}
	conflicts := []sync.Conflict{{RecordID: "a"}}

	assert.Zero(t, discountConflicted(0, syncedIDs, conflicts))
}

func TestDeleteSyncedKeepsPending(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Enqueue(testQueueItem("keep-1")))

	synced := testQueueItem("gone-1")
	require.NoError(t, storage.Enqueue(synced))
	require.NoError(t, storage.MarkState("gone-1", StateSynced, ""))

	deleted, err := storage.DeleteSyncedBefore(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	got, err := storage.GetQueueItem("keep-1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, got.State)
}

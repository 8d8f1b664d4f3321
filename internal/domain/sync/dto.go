package sync

import "time"

// GetChangesRequest запрос на получение изменений
type GetChangesRequest struct {
	Cursor string    `json:"cursor,omitempty" doc:"Позиция предыдущей страницы; пусто — с начала"`
	Since  time.Time `json:"since,omitempty" format:"date-time"`
	Limit  int       `json:"limit" minimum:"1" maximum:"1000" default:"100"`
}

// GetChangesResponse ответ с изменениями
type GetChangesResponse struct {
	Records     []SyncRecord `json:"records,omitempty"`
	NextCursor  string       `json:"next_cursor,omitempty"`
	HasMore     bool         `json:"has_more"`
	ServerTime  time.Time    `json:"server_time"`
	SyncVersion int64        `json:"sync_version"`
}

// BatchSyncRequest запрос на пакетную синхронизацию
type BatchSyncRequest struct {
	DeviceID string       `json:"device_id,omitempty"`
	Records  []SyncRecord `json:"records" maxItems:"1000"`
}

// RecordError — ошибка обработки одной записи пакета
type RecordError struct {
	RecordID string `json:"record_id"`
	Error    string `json:"error"`
}

// BatchSyncResponse ответ на пакетную синхронизацию
type BatchSyncResponse struct {
	Processed int           `json:"processed"`
	Conflicts int           `json:"conflicts"`
	Failed    int           `json:"failed"`
	Errors    []RecordError `json:"errors,omitempty"`
}

// ResolveConflictRequest запрос на разрешение конфликта
type ResolveConflictRequest struct {
	Resolution string      `json:"resolution" enum:"client,server,newer,manual"`
	Merged     *SyncRecord `json:"merged,omitempty" doc:"Итоговая запись при ручном слиянии"`
}

// ResolveConflictResponse ответ на разрешение конфликта
type ResolveConflictResponse struct {
	Record *SyncRecord `json:"record,omitempty"`
}

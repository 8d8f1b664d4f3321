package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/sync"
)

type SyncRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSyncRepository(db *Storage, log *slog.Logger) *SyncRepository {
	return &SyncRepository{
		db:  db,
		log: log.With(slog.String("component", "sync_repository")),
	}
}

func (r *SyncRepository) GetSyncStatus(ctx context.Context, userID int) (*sync.SyncStatus, error) {
	const query = `
		SELECT s.user_id, s.last_sync_time, s.sync_version, s.updated_at,
		       (SELECT COUNT(*) FROM sync_records WHERE user_id = s.user_id),
		       (SELECT COUNT(*) FROM sync_devices WHERE user_id = s.user_id),
		       (SELECT COUNT(*) FROM sync_conflicts WHERE user_id = s.user_id AND NOT resolved)
		FROM sync_status s
		WHERE s.user_id = $1`

	var st sync.SyncStatus
	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(
		&st.UserID, &st.LastSyncTime, &st.SyncVersion, &st.UpdatedAt,
		&st.TotalRecords, &st.DeviceCount, &st.PendingConflicts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// первый запрос пользователя — заводим пустой статус
			return r.initStatus(ctx, userID)
		}
		return nil, fmt.Errorf("get sync status: %w", err)
	}

	return &st, nil
}

func (r *SyncRepository) initStatus(ctx context.Context, userID int) (*sync.SyncStatus, error) {
	const query = `
		INSERT INTO sync_status (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.Pool().Exec(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("init sync status: %w", err)
	}

	return &sync.SyncStatus{UserID: userID, UpdatedAt: time.Now().UTC()}, nil
}

func (r *SyncRepository) UpdateSyncStatus(ctx context.Context, status *sync.SyncStatus) error {
	const query = `
		UPDATE sync_status
		SET last_sync_time = $1, sync_version = $2, updated_at = NOW()
		WHERE user_id = $3`

	_, err := r.db.Pool().Exec(ctx, query,
		status.LastSyncTime, status.SyncVersion, status.UserID)
	if err != nil {
		return fmt.Errorf("update sync status: %w", err)
	}
	return nil
}

func (r *SyncRepository) GetDevice(ctx context.Context, deviceID string) (*sync.DeviceInfo, error) {
	const query = `
		SELECT id, user_id, name, platform, last_sync_time, created_at, user_agent
		FROM sync_devices
		WHERE id = $1`

	var d sync.DeviceInfo
	err := r.db.Pool().QueryRow(ctx, query, deviceID).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Platform, &d.LastSyncTime, &d.CreatedAt, &d.UserAgent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sync.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("get device: %w", err)
	}

	return &d, nil
}

func (r *SyncRepository) UpsertDevice(ctx context.Context, device *sync.DeviceInfo) error {
	const query = `
		INSERT INTO sync_devices (id, user_id, name, platform, last_sync_time, created_at, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, platform = EXCLUDED.platform,
		    last_sync_time = EXCLUDED.last_sync_time, user_agent = EXCLUDED.user_agent`

	_, err := r.db.Pool().Exec(ctx, query,
		device.ID, device.UserID, device.Name, device.Platform,
		device.LastSyncTime, device.CreatedAt, device.UserAgent)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

func (r *SyncRepository) ListDevices(ctx context.Context, userID int) ([]sync.DeviceInfo, error) {
	const query = `
		SELECT id, user_id, name, platform, last_sync_time, created_at, user_agent
		FROM sync_devices
		WHERE user_id = $1
		ORDER BY last_sync_time DESC`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []sync.DeviceInfo
	for rows.Next() {
		var d sync.DeviceInfo
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Platform,
			&d.LastSyncTime, &d.CreatedAt, &d.UserAgent); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}

func (r *SyncRepository) DeleteDevice(ctx context.Context, deviceID string) error {
	result, err := r.db.Pool().Exec(ctx,
		`DELETE FROM sync_devices WHERE id = $1`, deviceID)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sync.ErrDeviceNotFound
	}
	return nil
}

func (r *SyncRepository) RecordsModifiedSince(ctx context.Context, userID int, since time.Time, afterID string, limit int) ([]sync.SyncRecord, error) {
	const query = `
		SELECT id, user_id, kind, payload, version, deleted, modified_at, device_id, received_at
		FROM sync_records
		WHERE user_id = $1 AND (modified_at, id) > ($2, $3)
		ORDER BY modified_at, id
		LIMIT $4`

	rows, err := r.db.Pool().Query(ctx, query, userID, since, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("records modified since: %w", err)
	}
	defer rows.Close()

	var records []sync.SyncRecord
	for rows.Next() {
		var rec sync.SyncRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Payload,
			&rec.Version, &rec.Deleted, &rec.ModifiedAt, &rec.DeviceID, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *SyncRepository) GetRecord(ctx context.Context, userID int, recordID string) (*sync.SyncRecord, error) {
	const query = `
		SELECT id, user_id, kind, payload, version, deleted, modified_at, device_id, received_at
		FROM sync_records
		WHERE id = $1 AND user_id = $2`

	var rec sync.SyncRecord
	err := r.db.Pool().QueryRow(ctx, query, recordID, userID).Scan(
		&rec.ID, &rec.UserID, &rec.Kind, &rec.Payload,
		&rec.Version, &rec.Deleted, &rec.ModifiedAt, &rec.DeviceID, &rec.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sync.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get sync record: %w", err)
	}

	return &rec, nil
}

// SaveRecord сохраняет запись; версия наращивается поверх существующей,
// чтобы разрешение конфликта всегда выигрывало по версии
func (r *SyncRepository) SaveRecord(ctx context.Context, record *sync.SyncRecord) error {
	const query = `
		INSERT INTO sync_records (id, user_id, kind, payload, version, deleted,
		                          modified_at, device_id, received_at)
		VALUES ($1, $2, $3, $4, GREATEST($5, 1), $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    version = GREATEST(sync_records.version + 1, EXCLUDED.version),
		    deleted = EXCLUDED.deleted,
		    modified_at = EXCLUDED.modified_at,
		    device_id = EXCLUDED.device_id,
		    received_at = EXCLUDED.received_at`

	_, err := r.db.Pool().Exec(ctx, query,
		record.ID, record.UserID, record.Kind, record.Payload, record.Version,
		record.Deleted, record.ModifiedAt, record.DeviceID, record.ReceivedAt)
	if err != nil {
		r.log.Error("failed to save sync record",
			"record_id", record.ID, "user_id", record.UserID, "error", err)
		return fmt.Errorf("save sync record: %w", err)
	}

	return nil
}

func (r *SyncRepository) SaveConflict(ctx context.Context, conflict *sync.Conflict) error {
	const query = `
		INSERT INTO sync_conflicts (record_id, record_kind, user_id, device_id,
		                            client_data, server_data, client_mtime,
		                            server_mtime, conflict_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.Pool().QueryRow(ctx, query,
		conflict.RecordID, conflict.RecordKind, conflict.UserID, conflict.DeviceID,
		conflict.ClientData, conflict.ServerData, conflict.ClientMtime,
		conflict.ServerMtime, conflict.ConflictType, conflict.CreatedAt,
	).Scan(&conflict.ID)
	if err != nil {
		return fmt.Errorf("save conflict: %w", err)
	}

	return nil
}

func (r *SyncRepository) ListConflicts(ctx context.Context, userID int) ([]sync.Conflict, error) {
	const query = `
		SELECT id, record_id, record_kind, user_id, device_id, client_data,
		       server_data, client_mtime, server_mtime, conflict_type,
		       resolved, resolution, resolved_at, created_at
		FROM sync_conflicts
		WHERE user_id = $1 AND NOT resolved
		ORDER BY created_at`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []sync.Conflict
	for rows.Next() {
		c, err := r.scanConflict(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, *c)
	}

	return conflicts, rows.Err()
}

func (r *SyncRepository) GetConflict(ctx context.Context, conflictID int) (*sync.Conflict, error) {
	const query = `
		SELECT id, record_id, record_kind, user_id, device_id, client_data,
		       server_data, client_mtime, server_mtime, conflict_type,
		       resolved, resolution, resolved_at, created_at
		FROM sync_conflicts
		WHERE id = $1`

	c, err := r.scanConflict(r.db.Pool().QueryRow(ctx, query, conflictID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sync.ErrConflictNotFound
		}
		return nil, fmt.Errorf("get conflict: %w", err)
	}

	return c, nil
}

func (r *SyncRepository) MarkResolved(ctx context.Context, conflictID int, resolution string, resolvedAt time.Time) error {
	const query = `
		UPDATE sync_conflicts
		SET resolved = TRUE, resolution = $1, resolved_at = $2
		WHERE id = $3 AND NOT resolved`

	result, err := r.db.Pool().Exec(ctx, query, resolution, resolvedAt, conflictID)
	if err != nil {
		return fmt.Errorf("mark conflict resolved: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sync.ErrConflictNotFound
	}

	return nil
}

func (r *SyncRepository) PurgeResolved(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sync_conflicts WHERE resolved AND resolved_at <= $1`

	result, err := r.db.Pool().Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("purge resolved conflicts: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *SyncRepository) scanConflict(row interface {
	Scan(dest ...interface{}) error
}) (*sync.Conflict, error) {
	var c sync.Conflict
	var resolution sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.RecordID, &c.RecordKind, &c.UserID, &c.DeviceID,
		&c.ClientData, &c.ServerData, &c.ClientMtime, &c.ServerMtime,
		&c.ConflictType, &c.Resolved, &resolution, &resolvedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resolution.Valid {
		c.Resolution = resolution.String
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}

	return &c, nil
}

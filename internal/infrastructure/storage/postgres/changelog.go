package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"leafwise/internal/domain/sync"
)

// change — след доменной записи в ленте изменений sync_records.
// GetChanges читает только эту ленту, поэтому каждая доменная запись
// обязана оставить след в той же транзакции, что и основная вставка.
type change struct {
	userID     int
	kind       sync.RecordKind
	id         string
	payload    interface{}
	version    int
	deleted    bool
	modifiedAt time.Time
	deviceID   string
}

func appendChange(ctx context.Context, tx pgx.Tx, c change) error {
	data, err := json.Marshal(c.payload)
	if err != nil {
		return fmt.Errorf("marshal change payload: %w", err)
	}

	const query = `
		INSERT INTO sync_records (id, user_id, kind, payload, version, deleted,
		                          modified_at, device_id, received_at)
		VALUES ($1, $2, $3, $4, GREATEST($5, 1), $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    version = GREATEST(sync_records.version, EXCLUDED.version),
		    deleted = EXCLUDED.deleted,
		    modified_at = EXCLUDED.modified_at,
		    device_id = EXCLUDED.device_id,
		    received_at = EXCLUDED.received_at`

	if _, err := tx.Exec(ctx, query, c.id, c.userID, c.kind, data,
		c.version, c.deleted, c.modifiedAt, c.deviceID); err != nil {
		return fmt.Errorf("append change: %w", err)
	}

	return nil
}

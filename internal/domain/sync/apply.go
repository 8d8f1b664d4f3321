package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/telemetry"
)

// Applier применяет принятую при синхронизации запись к доменному
// хранилищу ее вида. Лента изменений пополняется самим доменом в той
// же транзакции, поэтому примененные записи в sync_records напрямую
// не пишутся.
type Applier interface {
	Apply(ctx context.Context, rec *SyncRecord) error
}

// ApplierFunc — адаптер функции к интерфейсу Applier
type ApplierFunc func(ctx context.Context, rec *SyncRecord) error

func (f ApplierFunc) Apply(ctx context.Context, rec *SyncRecord) error {
	return f(ctx, rec)
}

// ReadingSink — срез телеметрийного сервиса, принимающий замеры
type ReadingSink interface {
	IngestReading(ctx context.Context, userID int, req telemetry.ReadingRequest) (*telemetry.LightReading, error)
}

// PhotoSink — срез телеметрийного сервиса, принимающий фотографии;
// байты уходят в объектное хранилище, метаданные в БД
type PhotoSink interface {
	UploadPhoto(ctx context.Context, userID int, req telemetry.PhotoUploadRequest) (*telemetry.GrowthPhoto, error)
}

// PlantSink — срез сервиса растений для применения удаленных правок
type PlantSink interface {
	ApplyRemote(ctx context.Context, userID, plantID int, req plant.UpdateRequest, deleted bool) error
}

// NewReadingApplier направляет записи вида light_reading в телеметрию.
// Замеры неизменяемы, удаление для них не определено.
func NewReadingApplier(sink ReadingSink) Applier {
	return ApplierFunc(func(ctx context.Context, rec *SyncRecord) error {
		if rec.Deleted {
			return fmt.Errorf("%w: замеры освещенности не удаляются", ErrInvalidInput)
		}

		var req telemetry.ReadingRequest
		if err := json.Unmarshal(rec.Payload, &req); err != nil {
			return fmt.Errorf("%w: разбор замера: %v", ErrInvalidInput, err)
		}
		if req.ID == "" {
			req.ID = rec.ID
		}
		if req.DeviceID == "" {
			req.DeviceID = rec.DeviceID
		}

		_, err := sink.IngestReading(ctx, rec.UserID, req)
		return err
	})
}

// NewPhotoApplier направляет записи вида growth_photo в телеметрию
func NewPhotoApplier(sink PhotoSink) Applier {
	return ApplierFunc(func(ctx context.Context, rec *SyncRecord) error {
		if rec.Deleted {
			return fmt.Errorf("%w: фотографии роста не удаляются через очередь", ErrInvalidInput)
		}

		var req telemetry.PhotoUploadRequest
		if err := json.Unmarshal(rec.Payload, &req); err != nil {
			return fmt.Errorf("%w: разбор фотографии: %v", ErrInvalidInput, err)
		}
		if req.ID == "" {
			req.ID = rec.ID
		}
		if req.DeviceID == "" {
			req.DeviceID = rec.DeviceID
		}

		_, err := sink.UploadPhoto(ctx, rec.UserID, req)
		return err
	})
}

// NewPlantApplier направляет записи вида plant в сервис растений.
// Идентификаторы растений выдает сервер, поэтому ID записи числовой.
func NewPlantApplier(sink PlantSink) Applier {
	return ApplierFunc(func(ctx context.Context, rec *SyncRecord) error {
		plantID, err := strconv.Atoi(rec.ID)
		if err != nil {
			return fmt.Errorf("%w: нечисловой id растения %q", ErrInvalidInput, rec.ID)
		}

		var req plant.UpdateRequest
		if !rec.Deleted {
			if err := json.Unmarshal(rec.Payload, &req); err != nil {
				return fmt.Errorf("%w: разбор растения: %v", ErrInvalidInput, err)
			}
		}

		return sink.ApplyRemote(ctx, rec.UserID, plantID, req, rec.Deleted)
	})
}

package sync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"leafwise/internal/domain/plant"
	"leafwise/internal/domain/telemetry"
)

type stubReadingSink struct {
	userID int
	req    telemetry.ReadingRequest
}

func (s *stubReadingSink) IngestReading(_ context.Context, userID int, req telemetry.ReadingRequest) (*telemetry.LightReading, error) {
	s.userID = userID
	s.req = req
	return &telemetry.LightReading{ID: req.ID}, nil
}

type stubPhotoSink struct {
	userID int
	req    telemetry.PhotoUploadRequest
}

func (s *stubPhotoSink) UploadPhoto(_ context.Context, userID int, req telemetry.PhotoUploadRequest) (*telemetry.GrowthPhoto, error) {
	s.userID = userID
	s.req = req
	return &telemetry.GrowthPhoto{ID: req.ID}, nil
}

type stubPlantSink struct {
	userID  int
	plantID int
	req     plant.UpdateRequest
	deleted bool
}

func (s *stubPlantSink) ApplyRemote(_ context.Context, userID, plantID int, req plant.UpdateRequest, deleted bool) error {
	s.userID = userID
	s.plantID = plantID
	s.req = req
	s.deleted = deleted
	return nil
}

func TestReadingApplier_DecodesQueuePayload(t *testing.T) {
	sink := &stubReadingSink{}
	applier := NewReadingApplier(sink)

	measured := time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC)
	payload, _ := json.Marshal(map[string]interface{}{
		"plant_id":     7,
		"lux":          1200.5,
		"color_temp_k": 5500,
		"measured_at":  measured,
	})

	err := applier.Apply(context.Background(), &SyncRecord{
		ID:       "r1",
		UserID:   3,
		Kind:     KindLightReading,
		Payload:  payload,
		DeviceID: "dev-1",
	})
	assert.NoError(t, err)

	assert.Equal(t, 3, sink.userID)
	assert.Equal(t, 7, sink.req.PlantID)
	assert.Equal(t, 1200.5, sink.req.Lux)
	// id и устройство записи подставляются из конверта
	assert.Equal(t, "r1", sink.req.ID)
	assert.Equal(t, "dev-1", sink.req.DeviceID)
	assert.True(t, measured.Equal(sink.req.MeasuredAt))
}

func TestReadingApplier_RejectsDeleted(t *testing.T) {
	applier := NewReadingApplier(&stubReadingSink{})

	err := applier.Apply(context.Background(), &SyncRecord{ID: "r1", Deleted: true})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadingApplier_RejectsMalformedPayload(t *testing.T) {
	applier := NewReadingApplier(&stubReadingSink{})

	err := applier.Apply(context.Background(), &SyncRecord{
		ID:      "r1",
		Payload: json.RawMessage(`not json`),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPhotoApplier_DecodesUpload(t *testing.T) {
	sink := &stubPhotoSink{}
	applier := NewPhotoApplier(sink)

	data := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	payload, _ := json.Marshal(map[string]interface{}{
		"plant_id": 7,
		"data":     data,
		"taken_at": time.Now().UTC(),
	})

	err := applier.Apply(context.Background(), &SyncRecord{
		ID:      "p1",
		UserID:  3,
		Kind:    KindGrowthPhoto,
		Payload: payload,
	})
	assert.NoError(t, err)

	assert.Equal(t, 3, sink.userID)
	assert.Equal(t, 7, sink.req.PlantID)
	assert.Equal(t, "p1", sink.req.ID)
	assert.Equal(t, data, sink.req.Data)
}

func TestPlantApplier_Update(t *testing.T) {
	sink := &stubPlantSink{}
	applier := NewPlantApplier(sink)

	err := applier.Apply(context.Background(), &SyncRecord{
		ID:      "10",
		UserID:  3,
		Kind:    KindPlant,
		Payload: json.RawMessage(`{"name":"Monstera","version":4}`),
	})
	assert.NoError(t, err)

	assert.Equal(t, 3, sink.userID)
	assert.Equal(t, 10, sink.plantID)
	assert.Equal(t, "Monstera", sink.req.Name)
	assert.Equal(t, 4, sink.req.Version)
	assert.False(t, sink.deleted)
}

func TestPlantApplier_Delete(t *testing.T) {
	sink := &stubPlantSink{}
	applier := NewPlantApplier(sink)

	err := applier.Apply(context.Background(), &SyncRecord{
		ID:      "10",
		UserID:  3,
		Kind:    KindPlant,
		Deleted: true,
	})
	assert.NoError(t, err)
	assert.True(t, sink.deleted)
}

func TestPlantApplier_NonNumericID(t *testing.T) {
	applier := NewPlantApplier(&stubPlantSink{})

	err := applier.Apply(context.Background(), &SyncRecord{ID: "not-a-number", Kind: KindPlant})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

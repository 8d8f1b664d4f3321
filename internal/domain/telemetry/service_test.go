package telemetry

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"leafwise/internal/utils/cursor"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateReading(ctx context.Context, r *LightReading) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetReading(ctx context.Context, userID int, id string) (*LightReading, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LightReading), args.Error(1)
}

func (m *MockRepository) ListReadings(ctx context.Context, userID int, q ReadingQuery) ([]LightReading, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).([]LightReading), args.Error(1)
}

func (m *MockRepository) CreatePhoto(ctx context.Context, p *GrowthPhoto) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetPhoto(ctx context.Context, userID int, id string) (*GrowthPhoto, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*GrowthPhoto), args.Error(1)
}

func (m *MockRepository) ListPhotos(ctx context.Context, userID int, q ReadingQuery) ([]GrowthPhoto, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).([]GrowthPhoto), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func validReading() ReadingRequest {
	return ReadingRequest{
		PlantID:    7,
		Lux:        1250.5,
		MeasuredAt: time.Now().Add(-time.Minute),
		DeviceID:   "pixel-8",
	}
}

func TestService_IngestReading(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockObjectStore), slog.Default())

	mockRepo.On("CreateReading", mock.Anything, mock.MatchedBy(func(r *LightReading) bool {
		return r.UserID == 1 && r.PlantID == 7 && r.ID != "" && r.Version == 1
	})).Return(nil)

	r, err := service.IngestReading(context.Background(), 1, validReading())
	assert.NoError(t, err)
	assert.NotEmpty(t, r.ID)

	mockRepo.AssertExpectations(t)
}

func TestService_IngestReading_Validation(t *testing.T) {
	service := NewService(new(MockRepository), new(MockObjectStore), slog.Default())

	colorTooHot := 25000
	tests := []struct {
		name   string
		mutate func(*ReadingRequest)
	}{
		{
			name:   "missing plant",
			mutate: func(r *ReadingRequest) { r.PlantID = 0 },
		},
		{
			name:   "negative lux",
			mutate: func(r *ReadingRequest) { r.Lux = -1 },
		},
		{
			name:   "color temp out of range",
			mutate: func(r *ReadingRequest) { r.ColorTempK = &colorTooHot },
		},
		{
			name:   "measured in the future",
			mutate: func(r *ReadingRequest) { r.MeasuredAt = time.Now().Add(time.Hour) },
		},
		{
			name:   "measured too long ago",
			mutate: func(r *ReadingRequest) { r.MeasuredAt = time.Now().AddDate(-11, 0, 0) },
		},
		{
			name:   "zero measured_at",
			mutate: func(r *ReadingRequest) { r.MeasuredAt = time.Time{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReading()
			tt.mutate(&req)

			_, err := service.IngestReading(context.Background(), 1, req)
			assert.ErrorIs(t, err, ErrInvalidReading)
		})
	}
}

func TestService_IngestBatch_PartialFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockObjectStore), slog.Default())

	mockRepo.On("CreateReading", mock.Anything, mock.Anything).Return(nil)

	bad := validReading()
	bad.Lux = -5

	resp, err := service.IngestBatch(context.Background(), 1, BatchRequest{
		Readings: []ReadingRequest{validReading(), bad, validReading()},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Accepted)
	assert.Len(t, resp.Failed, 1)
	assert.Equal(t, 1, resp.Failed[0].Index)
}

func TestService_IngestBatch_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockObjectStore), slog.Default())

	mockRepo.On("CreateReading", mock.Anything, mock.Anything).
		Return(errors.New("database error"))

	resp, err := service.IngestBatch(context.Background(), 1, BatchRequest{
		Readings: []ReadingRequest{validReading()},
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Accepted)
	assert.Len(t, resp.Failed, 1)
}

func TestService_Readings_Pagination(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockObjectStore), slog.Default())

	now := time.Now().UTC()
	full := make([]LightReading, 50)
	for i := range full {
		full[i] = LightReading{ID: "r", LastModified: now}
	}

	mockRepo.On("ListReadings", mock.Anything, 1, ReadingQuery{PlantID: 7, Limit: 50}).
		Return(full, nil)

	page, err := service.Readings(context.Background(), 1, ReadingQuery{PlantID: 7})
	assert.NoError(t, err)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)

	ts, id, err := cursor.Decode(page.NextCursor)
	assert.NoError(t, err)
	assert.Equal(t, "r", id)
	assert.True(t, ts.Equal(now))
}

func TestService_Readings_BadCursor(t *testing.T) {
	service := NewService(new(MockRepository), new(MockObjectStore), slog.Default())

	_, err := service.Readings(context.Background(), 1, ReadingQuery{Cursor: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestService_UploadPhoto(t *testing.T) {
	mockRepo := new(MockRepository)
	mockObjects := new(MockObjectStore)
	service := NewService(mockRepo, mockObjects, slog.Default())

	data := []byte("jpeg bytes")
	mockObjects.On("Put", mock.Anything, mock.Anything, data, "image/jpeg").Return(nil)
	mockRepo.On("CreatePhoto", mock.Anything, mock.MatchedBy(func(p *GrowthPhoto) bool {
		return p.UserID == 1 && p.PlantID == 7 && p.SizeBytes == int64(len(data))
	})).Return(nil)

	p, err := service.UploadPhoto(context.Background(), 1, PhotoUploadRequest{
		PlantID: 7,
		Data:    base64.StdEncoding.EncodeToString(data),
		TakenAt: time.Now().Add(-time.Minute),
	})
	assert.NoError(t, err)
	assert.Contains(t, p.ObjectKey, "photos/1/7/")

	mockObjects.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestService_UploadPhoto_CleansUpOnRepoError(t *testing.T) {
	mockRepo := new(MockRepository)
	mockObjects := new(MockObjectStore)
	service := NewService(mockRepo, mockObjects, slog.Default())

	mockObjects.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockObjects.On("Remove", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("CreatePhoto", mock.Anything, mock.Anything).Return(errors.New("database error"))

	_, err := service.UploadPhoto(context.Background(), 1, PhotoUploadRequest{
		PlantID: 7,
		Data:    base64.StdEncoding.EncodeToString([]byte("x")),
		TakenAt: time.Now().Add(-time.Minute),
	})
	assert.Error(t, err)

	mockObjects.AssertCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestService_UploadPhoto_BadData(t *testing.T) {
	service := NewService(new(MockRepository), new(MockObjectStore), slog.Default())

	_, err := service.UploadPhoto(context.Background(), 1, PhotoUploadRequest{
		PlantID: 7,
		Data:    "not base64!!!",
		TakenAt: time.Now().Add(-time.Minute),
	})
	assert.ErrorIs(t, err, ErrInvalidPhoto)
}

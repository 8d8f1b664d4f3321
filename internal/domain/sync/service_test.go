package sync

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"leafwise/internal/app/server/api/http/middleware/auth"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetSyncStatus(ctx context.Context, userID int) (*SyncStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SyncStatus), args.Error(1)
}

func (m *MockRepository) UpdateSyncStatus(ctx context.Context, status *SyncStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockRepository) GetDevice(ctx context.Context, deviceID string) (*DeviceInfo, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeviceInfo), args.Error(1)
}

func (m *MockRepository) UpsertDevice(ctx context.Context, device *DeviceInfo) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockRepository) ListDevices(ctx context.Context, userID int) ([]DeviceInfo, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]DeviceInfo), args.Error(1)
}

func (m *MockRepository) DeleteDevice(ctx context.Context, deviceID string) error {
	args := m.Called(ctx, deviceID)
	return args.Error(0)
}

func (m *MockRepository) RecordsModifiedSince(ctx context.Context, userID int, since time.Time, afterID string, limit int) ([]SyncRecord, error) {
	args := m.Called(ctx, userID, since, afterID, limit)
	return args.Get(0).([]SyncRecord), args.Error(1)
}

func (m *MockRepository) GetRecord(ctx context.Context, userID int, recordID string) (*SyncRecord, error) {
	args := m.Called(ctx, userID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SyncRecord), args.Error(1)
}

func (m *MockRepository) SaveRecord(ctx context.Context, record *SyncRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRepository) SaveConflict(ctx context.Context, conflict *Conflict) error {
	args := m.Called(ctx, conflict)
	return args.Error(0)
}

func (m *MockRepository) ListConflicts(ctx context.Context, userID int) ([]Conflict, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Conflict), args.Error(1)
}

func (m *MockRepository) GetConflict(ctx context.Context, conflictID int) (*Conflict, error) {
	args := m.Called(ctx, conflictID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Conflict), args.Error(1)
}

func (m *MockRepository) MarkResolved(ctx context.Context, conflictID int, resolution string, resolvedAt time.Time) error {
	args := m.Called(ctx, conflictID, resolution, resolvedAt)
	return args.Error(0)
}

func (m *MockRepository) PurgeResolved(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Apply(ctx context.Context, rec *SyncRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func authedCtx(userID int) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

func TestService_GetChanges_Unauthenticated(t *testing.T) {
	service := NewService(new(MockRepository), slog.Default(), nil)

	_, err := service.GetChanges(context.Background(), GetChangesRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestService_GetChanges(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	records := []SyncRecord{
		{ID: "r1", Kind: KindLightReading, ModifiedAt: time.Now()},
	}

	mockRepo.On("RecordsModifiedSince", mock.Anything, 1, mock.Anything, "", 100).
		Return(records, nil)
	mockRepo.On("GetSyncStatus", mock.Anything, 1).
		Return(&SyncStatus{UserID: 1, SyncVersion: 5}, nil)
	mockRepo.On("UpdateSyncStatus", mock.Anything, mock.MatchedBy(func(s *SyncStatus) bool {
		return s.SyncVersion == 6
	})).Return(nil)

	resp, err := service.GetChanges(authedCtx(1), GetChangesRequest{})
	assert.NoError(t, err)
	assert.Len(t, resp.Records, 1)
	assert.False(t, resp.HasMore)
	assert.Equal(t, int64(6), resp.SyncVersion)

	mockRepo.AssertExpectations(t)
}

func TestService_ProcessBatch_NewRecord(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetRecord", mock.Anything, 1, "r1").Return(nil, ErrRecordNotFound)
	mockRepo.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r *SyncRecord) bool {
		return r.ID == "r1" && r.UserID == 1
	})).Return(nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "r1", Kind: KindLightReading, Version: 1, ModifiedAt: time.Now()},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)
	assert.Zero(t, resp.Conflicts)
}

func TestService_ProcessBatch_VersionConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	server := &SyncRecord{
		ID:         "r1",
		Kind:       KindPlant,
		Version:    3,
		Payload:    json.RawMessage(`{"name":"Monstera"}`),
		ModifiedAt: time.Now().Add(-time.Minute),
	}

	mockRepo.On("GetRecord", mock.Anything, 1, "r1").Return(server, nil)
	mockRepo.On("SaveConflict", mock.Anything, mock.MatchedBy(func(c *Conflict) bool {
		return c.RecordID == "r1" && c.ConflictType == ConflictEditEdit
	})).Return(nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "r1", Kind: KindPlant, Version: 2, Payload: json.RawMessage(`{"name":"Monstera Variegata"}`), ModifiedAt: time.Now()},
		},
	})
	assert.NoError(t, err)
	assert.Zero(t, resp.Processed)
	assert.Equal(t, 1, resp.Conflicts)

	mockRepo.AssertExpectations(t)
}

func TestService_ProcessBatch_DeleteEditConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	server := &SyncRecord{ID: "r1", Kind: KindPlant, Version: 5, Deleted: true}

	mockRepo.On("GetRecord", mock.Anything, 1, "r1").Return(server, nil)
	mockRepo.On("SaveConflict", mock.Anything, mock.MatchedBy(func(c *Conflict) bool {
		return c.ConflictType == ConflictDeleteEdit
	})).Return(nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "r1", Kind: KindPlant, Version: 4},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Conflicts)

	mockRepo.AssertExpectations(t)
}

func TestService_ProcessBatch_RoutesToDomainApplier(t *testing.T) {
	mockRepo := new(MockRepository)
	applier := new(MockApplier)
	service := NewService(mockRepo, slog.Default(), nil)
	service.RegisterApplier(KindLightReading, applier)

	mockRepo.On("GetRecord", mock.Anything, 1, "r1").Return(nil, ErrRecordNotFound)
	applier.On("Apply", mock.Anything, mock.MatchedBy(func(r *SyncRecord) bool {
		return r.ID == "r1" && r.UserID == 1 && r.Kind == KindLightReading
	})).Return(nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "r1", Kind: KindLightReading, Version: 1, Payload: json.RawMessage(`{"plant_id":7,"lux":1200}`), ModifiedAt: time.Now()},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)

	applier.AssertExpectations(t)
	// ленту изменений пополняет домен, а не пакетная обработка
	mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestService_ProcessBatch_ApplierErrorFailsRecord(t *testing.T) {
	mockRepo := new(MockRepository)
	applier := new(MockApplier)
	service := NewService(mockRepo, slog.Default(), nil)
	service.RegisterApplier(KindLightReading, applier)

	mockRepo.On("GetRecord", mock.Anything, 1, "r1").Return(nil, ErrRecordNotFound)
	applier.On("Apply", mock.Anything, mock.Anything).Return(errors.New("lux must be finite"))

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "r1", Kind: KindLightReading, Version: 1, ModifiedAt: time.Now()},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Errors, 1)
	assert.Zero(t, resp.Processed)
}

func TestService_ProcessBatch_UnknownKindGoesToFeed(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)
	service.RegisterApplier(KindLightReading, new(MockApplier))

	mockRepo.On("GetRecord", mock.Anything, 1, "s1").Return(nil, ErrRecordNotFound)
	mockRepo.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r *SyncRecord) bool {
		return r.ID == "s1" && r.Kind == KindStory
	})).Return(nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{ID: "s1", Kind: KindStory, Version: 1, ModifiedAt: time.Now()},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)

	mockRepo.AssertExpectations(t)
}

func TestService_ResolveConflict_WinnerGoesThroughApplier(t *testing.T) {
	mockRepo := new(MockRepository)
	applier := new(MockApplier)
	service := NewService(mockRepo, slog.Default(), nil)
	service.RegisterApplier(KindPlant, applier)

	conflict := &Conflict{
		ID:          7,
		RecordID:    "10",
		RecordKind:  KindPlant,
		UserID:      1,
		ClientData:  json.RawMessage(`{"name":"client","version":2}`),
		ClientMtime: time.Now(),
	}

	mockRepo.On("GetConflict", mock.Anything, 7).Return(conflict, nil)
	applier.On("Apply", mock.Anything, mock.MatchedBy(func(r *SyncRecord) bool {
		return r.ID == "10" && r.UserID == 1
	})).Return(nil)
	mockRepo.On("MarkResolved", mock.Anything, 7, ResolutionClient, mock.Anything).Return(nil)

	_, err := service.ResolveConflict(authedCtx(1), 7, ResolveConflictRequest{Resolution: ResolutionClient})
	assert.NoError(t, err)

	applier.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestService_ProcessBatch_InvalidRecord(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	resp, err := service.ProcessBatch(authedCtx(1), BatchSyncRequest{
		Records: []SyncRecord{
			{Kind: KindPlant}, // нет ID
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Errors, 1)
}

func TestService_ResolveConflict_ClientWins(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	conflict := &Conflict{
		ID:          42,
		RecordID:    "r1",
		RecordKind:  KindPlant,
		UserID:      1,
		ClientData:  json.RawMessage(`{"name":"client"}`),
		ServerData:  json.RawMessage(`{"name":"server"}`),
		ClientMtime: time.Now(),
	}

	mockRepo.On("GetConflict", mock.Anything, 42).Return(conflict, nil)
	mockRepo.On("SaveRecord", mock.Anything, mock.MatchedBy(func(r *SyncRecord) bool {
		return r.ID == "r1" && string(r.Payload) == `{"name":"client"}`
	})).Return(nil)
	mockRepo.On("MarkResolved", mock.Anything, 42, ResolutionClient, mock.Anything).Return(nil)

	resp, err := service.ResolveConflict(authedCtx(1), 42, ResolveConflictRequest{Resolution: ResolutionClient})
	assert.NoError(t, err)
	assert.NotNil(t, resp.Record)

	mockRepo.AssertExpectations(t)
}

func TestService_ResolveConflict_ServerWins(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetConflict", mock.Anything, 42).Return(&Conflict{ID: 42, UserID: 1}, nil)
	mockRepo.On("MarkResolved", mock.Anything, 42, ResolutionServer, mock.Anything).Return(nil)

	resp, err := service.ResolveConflict(authedCtx(1), 42, ResolveConflictRequest{Resolution: ResolutionServer})
	assert.NoError(t, err)
	assert.Nil(t, resp.Record)

	mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestService_ResolveConflict_NewerPicksByMtime(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	conflict := &Conflict{
		ID:          42,
		RecordID:    "r1",
		UserID:      1,
		ClientData:  json.RawMessage(`{"v":"client"}`),
		ClientMtime: time.Now(),
		ServerMtime: time.Now().Add(-time.Hour),
	}

	mockRepo.On("GetConflict", mock.Anything, 42).Return(conflict, nil)
	mockRepo.On("SaveRecord", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("MarkResolved", mock.Anything, 42, ResolutionNewer, mock.Anything).Return(nil)

	resp, err := service.ResolveConflict(authedCtx(1), 42, ResolveConflictRequest{Resolution: ResolutionNewer})
	assert.NoError(t, err)
	assert.NotNil(t, resp.Record)
}

func TestService_ResolveConflict_ManualRequiresMerged(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetConflict", mock.Anything, 42).Return(&Conflict{ID: 42, UserID: 1}, nil)

	_, err := service.ResolveConflict(authedCtx(1), 42, ResolveConflictRequest{Resolution: ResolutionManual})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ResolveConflict_Forbidden(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetConflict", mock.Anything, 42).Return(&Conflict{ID: 42, UserID: 99}, nil)

	_, err := service.ResolveConflict(authedCtx(1), 42, ResolveConflictRequest{Resolution: ResolutionServer})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_RemoveDevice(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetDevice", mock.Anything, "d1").Return(&DeviceInfo{ID: "d1", UserID: 1}, nil)
	mockRepo.On("DeleteDevice", mock.Anything, "d1").Return(nil)

	err := service.RemoveDevice(authedCtx(1), "d1")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestService_RemoveDevice_Forbidden(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), nil)

	mockRepo.On("GetDevice", mock.Anything, "d1").Return(&DeviceInfo{ID: "d1", UserID: 2}, nil)

	err := service.RemoveDevice(authedCtx(1), "d1")
	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.AssertNotCalled(t, "DeleteDevice", mock.Anything, mock.Anything)
}

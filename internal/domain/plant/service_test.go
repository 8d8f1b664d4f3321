package plant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, userID int) ([]Plant, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Plant), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, userID, plantID int) (*Plant, error) {
	args := m.Called(ctx, userID, plantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plant), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *Plant) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) ForceUpdate(ctx context.Context, p *Plant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, userID, plantID int) error {
	args := m.Called(ctx, userID, plantID)
	return args.Error(0)
}

func (m *MockRepository) Search(ctx context.Context, userID int, criteria SearchCriteria) ([]Plant, error) {
	args := m.Called(ctx, userID, criteria)
	return args.Get(0).([]Plant), args.Error(1)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Plant) bool {
		return p.Name == "Monstera" && p.UserID == 1
	})).Return(10, nil)

	id, err := service.Create(context.Background(), 1, CreateRequest{
		Name:    "  Monstera  ",
		Species: "Monstera deliciosa",
	})
	assert.NoError(t, err)
	assert.Equal(t, 10, id)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{
			name: "empty name",
			req:  CreateRequest{Name: "   "},
		},
		{
			name: "bad hemisphere",
			req:  CreateRequest{Name: "Fern", Hemisphere: "equator"},
		},
		{
			name: "acquired in the future",
			req:  CreateRequest{Name: "Fern", AcquiredAt: &future},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), 1, tt.req)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update_VersionConflict(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*plant.Plant")).
		Return(ErrVersionConflict)

	err := service.Update(context.Background(), 1, 10, UpdateRequest{
		Name:    "Monstera",
		Version: 3,
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestService_List(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("List", mock.Anything, 1).Return([]Plant{
		{ID: 1, Name: "Monstera"},
		{ID: 2, Name: "Ficus"},
	}, nil)

	resp, err := service.List(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Plants, 2)
}

func TestService_List_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("List", mock.Anything, 1).Return([]Plant(nil), errors.New("database error"))

	_, err := service.List(context.Background(), 1)
	assert.Error(t, err)
}

func TestService_ApplyRemote_Update(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("ForceUpdate", mock.Anything, mock.MatchedBy(func(p *Plant) bool {
		return p.ID == 10 && p.UserID == 1 && p.Name == "Monstera" && p.Version == 4
	})).Return(nil)

	err := service.ApplyRemote(context.Background(), 1, 10, UpdateRequest{
		Name:    "Monstera",
		Version: 4,
	}, false)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
	// версия не проверяется оптимистически при удаленном применении
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_ApplyRemote_Delete(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("SoftDelete", mock.Anything, 1, 10).Return(nil)

	err := service.ApplyRemote(context.Background(), 1, 10, UpdateRequest{}, true)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestService_ApplyRemote_InvalidPayload(t *testing.T) {
	service := NewService(new(MockRepository), slog.Default())

	err := service.ApplyRemote(context.Background(), 1, 10, UpdateRequest{Name: ""}, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Search_LimitDefaults(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Search", mock.Anything, 1, SearchCriteria{Species: "ficus", Limit: 50}).
		Return([]Plant{}, nil)

	_, err := service.Search(context.Background(), 1, SearchCriteria{Species: "ficus"})
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

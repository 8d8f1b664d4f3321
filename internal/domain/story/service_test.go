package story

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *Story) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Story), args.Error(1)
}

func (m *MockRepository) Feed(ctx context.Context, now time.Time, afterCreated time.Time, afterID string, limit int) ([]Story, error) {
	args := m.Called(ctx, now, afterCreated, afterID, limit)
	return args.Get(0).([]Story), args.Error(1)
}

func (m *MockRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID int, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *Story) bool {
		return s.UserID == 1 &&
			s.Caption == "Новый лист!" &&
			s.ExpiresAt.Sub(s.CreatedAt) == 24*time.Hour
	})).Return(nil)

	st, err := service.Create(context.Background(), 1, CreateRequest{
		PlantID: 7,
		Caption: "  Новый лист!  ",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, st.ID)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	service := NewService(new(MockRepository), slog.Default())

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{
			name: "missing plant",
			req:  CreateRequest{Caption: "hi"},
		},
		{
			name: "empty content",
			req:  CreateRequest{PlantID: 7, Caption: "   "},
		},
		{
			name: "caption too long",
			req:  CreateRequest{PlantID: 7, Caption: strings.Repeat("ы", 501)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_View(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "s1").Return(&Story{
		ID:        "s1",
		ExpiresAt: time.Now().Add(time.Hour),
		ViewCount: 4,
	}, nil)
	mockRepo.On("IncrementViews", mock.Anything, "s1").Return(nil)

	st, err := service.View(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Equal(t, 5, st.ViewCount)
}

func TestService_View_Expired(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "s1").Return(&Story{
		ID:        "s1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := service.View(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrExpired)
	mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestService_Feed_Pagination(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	now := time.Now().UTC()
	full := make([]Story, 20)
	for i := range full {
		full[i] = Story{ID: "s", CreatedAt: now}
	}

	mockRepo.On("Feed", mock.Anything, mock.Anything, time.Time{}, "", 20).
		Return(full, nil)

	resp, err := service.Feed(context.Background(), FeedQuery{})
	assert.NoError(t, err)
	assert.True(t, resp.HasMore)
	assert.NotEmpty(t, resp.NextCursor)
}

func TestService_Feed_BadCursor(t *testing.T) {
	service := NewService(new(MockRepository), slog.Default())

	_, err := service.Feed(context.Background(), FeedQuery{Cursor: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_PurgeExpired(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("PurgeExpired", mock.Anything, mock.Anything).Return(int64(3), nil)

	n, err := service.PurgeExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestService_PurgeExpired_Error(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("PurgeExpired", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("database error"))

	_, err := service.PurgeExpired(context.Background())
	assert.Error(t, err)
}

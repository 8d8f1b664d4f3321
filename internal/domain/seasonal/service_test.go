package seasonal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"leafwise/internal/domain/plant"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Cached(ctx context.Context, userID, plantID int, season Season) (*Forecast, error) {
	args := m.Called(ctx, userID, plantID, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Forecast), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, f *Forecast) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) ForecastCare(ctx context.Context, p *plant.Plant, season Season) (*Forecast, error) {
	args := m.Called(ctx, p, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Forecast), args.Error(1)
}

func (m *MockForecaster) ModelName() string {
	return "gemini-2.0-flash"
}

type MockPlantSource struct {
	mock.Mock
}

func (m *MockPlantSource) Get(ctx context.Context, userID, plantID int) (*plant.Plant, error) {
	args := m.Called(ctx, userID, plantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.Plant), args.Error(1)
}

type MockLastLux struct {
	mock.Mock
}

func (m *MockLastLux) LatestLux(ctx context.Context, userID, plantID int) (float64, bool, error) {
	args := m.Called(ctx, userID, plantID)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		name       string
		month      time.Month
		hemisphere string
		want       Season
	}{
		{name: "january north", month: time.January, hemisphere: "north", want: SeasonWinter},
		{name: "january south", month: time.January, hemisphere: "south", want: SeasonSummer},
		{name: "april north", month: time.April, hemisphere: "north", want: SeasonSpring},
		{name: "april south", month: time.April, hemisphere: "south", want: SeasonAutumn},
		{name: "july north", month: time.July, hemisphere: "north", want: SeasonSummer},
		{name: "october south", month: time.October, hemisphere: "south", want: SeasonSpring},
		{name: "december default hemisphere", month: time.December, hemisphere: "", want: SeasonWinter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := time.Date(2026, tt.month, 15, 12, 0, 0, 0, time.UTC)
			assert.Equal(t, tt.want, SeasonFor(date, tt.hemisphere))
		})
	}
}

func TestSeasonEnd(t *testing.T) {
	tests := []struct {
		date time.Time
		want time.Time
	}{
		{
			date: time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC),
			want: time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			date: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			date: time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeasonEnd(tt.date))
	}
}

func newTestService(repo *MockRepository, fc *MockForecaster, ps *MockPlantSource, lux *MockLastLux) *Service {
	return NewService(repo, fc, ps, lux, slog.Default())
}

func TestService_Forecast_CacheHit(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFc := new(MockForecaster)
	mockPlants := new(MockPlantSource)
	service := newTestService(mockRepo, mockFc, mockPlants, new(MockLastLux))

	mockPlants.On("Get", mock.Anything, 1, 7).
		Return(&plant.Plant{ID: 7, Hemisphere: "north"}, nil)
	mockRepo.On("Cached", mock.Anything, 1, 7, mock.Anything).
		Return(&Forecast{ID: "f1", ValidUntil: time.Now().Add(time.Hour)}, nil)

	f, err := service.Forecast(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, "f1", f.ID)

	mockFc.AssertNotCalled(t, "ForecastCare", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Forecast_CacheMissGenerates(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFc := new(MockForecaster)
	mockPlants := new(MockPlantSource)
	service := newTestService(mockRepo, mockFc, mockPlants, new(MockLastLux))

	mockPlants.On("Get", mock.Anything, 1, 7).
		Return(&plant.Plant{ID: 7, Hemisphere: "south"}, nil)
	mockRepo.On("Cached", mock.Anything, 1, 7, mock.Anything).Return(nil, ErrNotFound)
	mockFc.On("ForecastCare", mock.Anything, mock.Anything, mock.Anything).
		Return(&Forecast{WateringIntervalDays: 5, TargetLuxMin: 5000, TargetLuxMax: 15000}, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(f *Forecast) bool {
		return f.ID != "" && f.PlantID == 7 && f.ValidUntil.After(time.Now())
	})).Return(nil)

	f, err := service.Forecast(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.Equal(t, "south", f.Hemisphere)
	assert.Equal(t, 5, f.WateringIntervalDays)

	mockRepo.AssertExpectations(t)
}

func TestService_Forecast_ModelFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFc := new(MockForecaster)
	mockPlants := new(MockPlantSource)
	service := newTestService(mockRepo, mockFc, mockPlants, new(MockLastLux))

	mockPlants.On("Get", mock.Anything, 1, 7).Return(&plant.Plant{ID: 7}, nil)
	mockRepo.On("Cached", mock.Anything, 1, 7, mock.Anything).Return(nil, ErrNotFound)
	mockFc.On("ForecastCare", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	_, err := service.Forecast(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrModelFailure)
}

func TestService_Overlay_LightDeficit(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFc := new(MockForecaster)
	mockPlants := new(MockPlantSource)
	mockLux := new(MockLastLux)
	service := newTestService(mockRepo, mockFc, mockPlants, mockLux)

	mockPlants.On("Get", mock.Anything, 1, 7).
		Return(&plant.Plant{ID: 7, Hemisphere: "north"}, nil)
	mockRepo.On("Cached", mock.Anything, 1, 7, mock.Anything).
		Return(&Forecast{
			Season:       SeasonWinter,
			TargetLuxMin: 5000,
			TargetLuxMax: 15000,
			ValidUntil:   time.Now().Add(time.Hour),
		}, nil)
	mockLux.On("LatestLux", mock.Anything, 1, 7).Return(800.0, true, nil)

	overlay, err := service.Overlay(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.True(t, overlay.LightDeficit)
	assert.False(t, overlay.LightExcess)
	assert.NotEmpty(t, overlay.MoveSuggestion)
}

func TestService_Overlay_NoReadings(t *testing.T) {
	mockRepo := new(MockRepository)
	mockFc := new(MockForecaster)
	mockPlants := new(MockPlantSource)
	mockLux := new(MockLastLux)
	service := newTestService(mockRepo, mockFc, mockPlants, mockLux)

	mockPlants.On("Get", mock.Anything, 1, 7).
		Return(&plant.Plant{ID: 7}, nil)
	mockRepo.On("Cached", mock.Anything, 1, 7, mock.Anything).
		Return(&Forecast{TargetLuxMin: 5000, ValidUntil: time.Now().Add(time.Hour)}, nil)
	mockLux.On("LatestLux", mock.Anything, 1, 7).Return(0.0, false, nil)

	overlay, err := service.Overlay(context.Background(), 1, 7)
	assert.NoError(t, err)
	assert.False(t, overlay.LightDeficit)
	assert.Zero(t, overlay.CurrentLux)
}

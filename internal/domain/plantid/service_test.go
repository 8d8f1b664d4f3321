package plantid

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, ident *Identification) error {
	args := m.Called(ctx, ident)
	return args.Error(0)
}

func (m *MockRepository) History(ctx context.Context, userID int, limit int) ([]Identification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]Identification), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, userID int, id string) (*Identification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identification), args.Error(1)
}

type MockIdentifier struct {
	mock.Mock
}

func (m *MockIdentifier) IdentifyPlant(ctx context.Context, image []byte, mimeType string) ([]Candidate, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Candidate), args.Error(1)
}

func (m *MockIdentifier) ModelName() string {
	return "gemini-2.0-flash"
}

func encodedImage() string {
	return base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
}

func TestService_Identify(t *testing.T) {
	mockRepo := new(MockRepository)
	mockIdent := new(MockIdentifier)
	service := NewService(mockRepo, mockIdent, slog.Default())

	mockIdent.On("IdentifyPlant", mock.Anything, []byte("jpeg bytes"), "image/jpeg").
		Return([]Candidate{
			{ScientificName: "Ficus lyrata", Confidence: 0.31},
			{ScientificName: "Monstera deliciosa", Confidence: 0.87},
		}, nil)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	ident, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: encodedImage()})
	assert.NoError(t, err)
	assert.Len(t, ident.Candidates, 2)
	// кандидаты по убыванию уверенности
	assert.Equal(t, "Monstera deliciosa", ident.Candidates[0].ScientificName)
	assert.Equal(t, "gemini-2.0-flash", ident.Model)

	mockIdent.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestService_Identify_BadImage(t *testing.T) {
	service := NewService(new(MockRepository), new(MockIdentifier), slog.Default())

	_, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: "not base64!!!"})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestService_Identify_ModelFailure(t *testing.T) {
	mockIdent := new(MockIdentifier)
	service := NewService(new(MockRepository), mockIdent, slog.Default())

	mockIdent.On("IdentifyPlant", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	_, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: encodedImage()})
	assert.ErrorIs(t, err, ErrModelFailure)
}

func TestService_Identify_NoCandidates(t *testing.T) {
	mockIdent := new(MockIdentifier)
	service := NewService(new(MockRepository), mockIdent, slog.Default())

	mockIdent.On("IdentifyPlant", mock.Anything, mock.Anything, mock.Anything).
		Return([]Candidate{}, nil)

	_, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: encodedImage()})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestService_Identify_ClampsConfidence(t *testing.T) {
	mockRepo := new(MockRepository)
	mockIdent := new(MockIdentifier)
	service := NewService(mockRepo, mockIdent, slog.Default())

	mockIdent.On("IdentifyPlant", mock.Anything, mock.Anything, mock.Anything).
		Return([]Candidate{
			{ScientificName: "Ficus lyrata", Confidence: 1.7},
			{ScientificName: "Monstera deliciosa", Confidence: -0.2},
			{ScientificName: "Epipremnum aureum", Confidence: math.NaN()},
		}, nil)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	ident, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: encodedImage()})
	assert.NoError(t, err)
	assert.Len(t, ident.Candidates, 3)

	assert.Equal(t, 1.0, ident.Candidates[0].Confidence)
	for _, c := range ident.Candidates {
		assert.GreaterOrEqual(t, c.Confidence, 0.0)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	}
}

func TestService_Identify_HistorySaveFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockRepository)
	mockIdent := new(MockIdentifier)
	service := NewService(mockRepo, mockIdent, slog.Default())

	mockIdent.On("IdentifyPlant", mock.Anything, mock.Anything, mock.Anything).
		Return([]Candidate{{ScientificName: "Ficus lyrata", Confidence: 0.9}}, nil)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("database error"))

	ident, err := service.Identify(context.Background(), 1, IdentifyRequest{Data: encodedImage()})
	assert.NoError(t, err)
	assert.Len(t, ident.Candidates, 1)
}

func TestService_History_LimitDefaults(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockIdentifier), slog.Default())

	mockRepo.On("History", mock.Anything, 1, 20).Return([]Identification{}, nil)

	resp, err := service.History(context.Background(), 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Total)

	mockRepo.AssertExpectations(t)
}

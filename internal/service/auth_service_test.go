package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baroform/lead-service/internal/config"
	"github.com/baroform/lead-service/internal/domain"
	"github.com/baroform/lead-service/internal/events"
	"github.com/baroform/lead-service/internal/repository"
)

// MockAdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

// MockPasswordResetRepository
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func authTestConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   30,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
}

func TestRequestPasswordResetPublishesToken(t *testing.T) {
	admins := new(MockAdminRepository)
	resets := new(MockPasswordResetRepository)
	dispatcher := &captureDispatcher{}

	svc := NewAuthService(authTestConfig(), AuthDependencies{
		AdminRepo:         admins,
		PasswordResetRepo: resets,
		Dispatcher:        dispatcher,
	})

	admins.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(&domain.Admin{ID: "admin-1", Email: "admin@example.com", Active: true}, nil)
	resets.On("Create", mock.Anything, mock.AnythingOfType("*repository.PasswordResetToken")).Return(nil)

	token, err := svc.RequestPasswordReset(context.Background(), "admin@example.com")

	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.Len(t, dispatcher.published, 1)
	event := dispatcher.published[0]
	assert.Equal(t, events.EventPasswordResetRequested, event.Type)
	payload := event.Payload.(events.PasswordResetRequestedPayload)
	assert.Equal(t, "admin@example.com", payload.Email)
	assert.Equal(t, token.Token, payload.Token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), payload.ExpiresAt, time.Minute)
}

func TestConfirmPasswordResetRejectsExpiredToken(t *testing.T) {
	admins := new(MockAdminRepository)
	resets := new(MockPasswordResetRepository)

	svc := NewAuthService(authTestConfig(), AuthDependencies{
		AdminRepo:         admins,
		PasswordResetRepo: resets,
	})

	resets.On("GetByToken", mock.Anything, "stale").Return(&repository.PasswordResetToken{
		ID:        "reset-1",
		AdminID:   "admin-1",
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	err := svc.ConfirmPasswordReset(context.Background(), "stale", "new-password")

	assert.Error(t, err)
	resets.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
}

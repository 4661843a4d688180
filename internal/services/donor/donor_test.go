package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateDonorProfile(ctx context.Context, profile models.DonorProfile) (int, error) {
	args := m.Called(ctx, profile)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetDonorProfileByUserUID(ctx context.Context, userUID string) (*models.DonorProfile, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DonorProfile), args.Error(1)
}

func (m *RepoMock) UpdateDonorProfile(ctx context.Context, profile models.DonorProfile, userUID string) (int, error) {
	args := m.Called(ctx, profile, userUID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListDonors(ctx context.Context, filter models.DonorFilter, limit, offset int) ([]*models.DonorProfile, error) {
	args := m.Called(ctx, filter, limit, offset)
	return args.Get(0).([]*models.DonorProfile), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDonor_Create(t *testing.T) {
	t.Run("without last donation date", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateDonorProfile", mock.Anything, mock.MatchedBy(func(p models.DonorProfile) bool {
			return p.UserUID == "user-uid" && p.BloodGroup == "O+" &&
				p.LastDonationDate == nil && p.IsAvailable
		})).Return(5, nil)

		service := NewDonorService(repo, new(CacheMock), NewNoopLogger())
		id, err := service.Create(context.Background(), "user-uid",
			models.DummyDonorProfile{BloodGroup: "O+", Age: 30})
		require.NoError(t, err)
		assert.Equal(t, 5, id)
	})

	t.Run("recent donation makes donor unavailable", func(t *testing.T) {
		repo := new(RepoMock)
		recent := time.Now().UTC().AddDate(0, 0, -10).Format("2006-01-02")
		repo.On("CreateDonorProfile", mock.Anything, mock.MatchedBy(func(p models.DonorProfile) bool {
			return p.LastDonationDate != nil && !p.IsAvailable
		})).Return(6, nil)

		service := NewDonorService(repo, new(CacheMock), NewNoopLogger())
		_, err := service.Create(context.Background(), "user-uid",
			models.DummyDonorProfile{BloodGroup: "O+", Age: 30, LastDonationDate: recent})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("future date is rejected", func(t *testing.T) {
		future := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
		service := NewDonorService(new(RepoMock), new(CacheMock), NewNoopLogger())
		_, err := service.Create(context.Background(), "user-uid",
			models.DummyDonorProfile{BloodGroup: "O+", Age: 30, LastDonationDate: future})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "future")
	})

	t.Run("invalid date", func(t *testing.T) {
		service := NewDonorService(new(RepoMock), new(CacheMock), NewNoopLogger())
		_, err := service.Create(context.Background(), "user-uid",
			models.DummyDonorProfile{BloodGroup: "O+", Age: 30, LastDonationDate: "10-01-2026"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid last donation date")
	})
}

func TestDonor_Get(t *testing.T) {
	t.Run("cache miss reads storage and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		profile := &models.DonorProfile{UserUID: "user-uid", BloodGroup: "A-"}

		cache.On("Get", "donor:user-uid", mock.Anything).Return(false, nil)
		repo.On("GetDonorProfileByUserUID", mock.Anything, "user-uid").Return(profile, nil)
		cache.On("Set", "donor:user-uid", profile, time.Hour).Return(nil)

		service := NewDonorService(repo, cache, NewNoopLogger())
		got, err := service.Get(context.Background(), "user-uid")
		require.NoError(t, err)
		assert.Equal(t, profile, got)
		cache.AssertExpectations(t)
	})

	t.Run("missing profile is not cached", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)

		cache.On("Get", "donor:user-uid", mock.Anything).Return(false, nil)
		repo.On("GetDonorProfileByUserUID", mock.Anything, "user-uid").Return(nil, nil)

		service := NewDonorService(repo, cache, NewNoopLogger())
		got, err := service.Get(context.Background(), "user-uid")
		require.NoError(t, err)
		assert.Nil(t, got)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDonor_Update_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("UpdateDonorProfile", mock.Anything, mock.Anything, "user-uid").Return(1, nil)
	cache.On("Invalidate", "donor:user-uid").Return(nil)

	service := NewDonorService(repo, cache, NewNoopLogger())
	rows, err := service.Update(context.Background(), "user-uid",
		models.DummyDonorProfile{BloodGroup: "B+", Age: 31})
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	cache.AssertExpectations(t)
}

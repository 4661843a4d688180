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

func (m *RepoMock) CreateEntry(ctx context.Context, entry models.BloodRequest) (int, error) {
	args := m.Called(ctx, entry)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ReadEntry(ctx context.Context, id int) (*models.BloodRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BloodRequest), args.Error(1)
}

func (m *RepoMock) UpdateEntry(ctx context.Context, entry models.BloodRequest, id int, userUID, role string) (int, error) {
	args := m.Called(ctx, entry, id, userUID, role)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemoveEntry(ctx context.Context, id int, userUID, role string) (int, error) {
	args := m.Called(ctx, id, userUID, role)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListEntrys(ctx context.Context, userUID string, filter models.RequestFilter, limit, offset int) ([]*models.BloodRequest, error) {
	args := m.Called(ctx, userUID, filter, limit, offset)
	return args.Get(0).([]*models.BloodRequest), args.Error(1)
}

func (m *RepoMock) ListMyEntrys(ctx context.Context, userUID string, limit, offset int) ([]*models.BloodRequest, error) {
	args := m.Called(ctx, userUID, limit, offset)
	return args.Get(0).([]*models.BloodRequest), args.Error(1)
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

func TestRequest_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(entry models.BloodRequest) bool {
			return entry.RecipientUID == "user-uid" &&
				entry.BloodGroup == "O+" &&
				entry.BagsNeeded == 2 &&
				entry.DonationDate.Equal(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
		})).Return(3, nil)

		service := NewRequestService(repo, new(CacheMock), NewNoopLogger())
		id, err := service.Create(context.Background(), "user-uid", models.DummyBloodRequest{
			BloodGroup:   "O+",
			BagsNeeded:   2,
			HospitalName: "City Hospital",
			DonationDate: "2026-09-10",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("invalid date", func(t *testing.T) {
		service := NewRequestService(new(RepoMock), new(CacheMock), NewNoopLogger())
		_, err := service.Create(context.Background(), "user-uid", models.DummyBloodRequest{
			BloodGroup:   "O+",
			BagsNeeded:   2,
			DonationDate: "10.09.2026",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid donation date")
	})
}

func TestRequest_Read_CacheAside(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	entry := &models.BloodRequest{ID: 3, BloodGroup: "A-"}

	cache.On("Get", "request:3", mock.Anything).Return(false, nil)
	repo.On("ReadEntry", mock.Anything, 3).Return(entry, nil)
	cache.On("Set", "request:3", entry, time.Hour).Return(nil)

	service := NewRequestService(repo, cache, NewNoopLogger())
	got, err := service.Read(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRequest_Update_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("UpdateEntry", mock.Anything, mock.Anything, 3, "user-uid", "user").Return(1, nil)
	cache.On("Invalidate", "request:3").Return(nil)

	service := NewRequestService(repo, cache, NewNoopLogger())
	rows, err := service.Update(context.Background(), models.DummyBloodRequest{
		BloodGroup:   "A-",
		BagsNeeded:   1,
		DonationDate: "2026-09-10",
	}, 3, "user-uid", "user")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	cache.AssertExpectations(t)
}

func TestRequest_Remove_InvalidatesCache(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	cache.On("Invalidate", "request:3").Return(nil)
	repo.On("RemoveEntry", mock.Anything, 3, "user-uid", "admin").Return(1, nil)

	service := NewRequestService(repo, cache, NewNoopLogger())
	rows, err := service.Remove(context.Background(), 3, "user-uid", "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	cache.AssertExpectations(t)
}

// Package services содержит логику бизнес-уровня для работы с анкетами доноров.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/dateutil"
	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// DonorRepository описывает контракт хранилища анкет доноров.
type DonorRepository interface {
	CreateDonorProfile(ctx context.Context, profile models.DonorProfile) (int, error)
	GetDonorProfileByUserUID(ctx context.Context, userUID string) (*models.DonorProfile, error)
	UpdateDonorProfile(ctx context.Context, profile models.DonorProfile, userUID string) (int, error)
	ListDonors(ctx context.Context, filter models.DonorFilter, limit, offset int) ([]*models.DonorProfile, error)
}

// Cache описывает контракт кэша ответов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// DonorService реализует операции над анкетами доноров.
type DonorService struct {
	repo  DonorRepository
	cache Cache
	log   *slog.Logger
}

// NewDonorService создает новый экземпляр DonorService.
func NewDonorService(repo DonorRepository, cache Cache, log *slog.Logger) *DonorService {
	return &DonorService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func donorCacheKey(userUID string) string {
	return fmt.Sprintf("donor:%s", userUID)
}

// parseLastDonation разбирает дату последней донации. Пустое значение
// допустимо, дата в будущем отклоняется.
func parseLastDonation(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	lastDonation, err := dateutil.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid last donation date: %w", err)
	}
	if lastDonation.After(dateutil.Today()) {
		return nil, fmt.Errorf("invalid last donation date: date is in the future")
	}
	return &lastDonation, nil
}

// Create создает анкету донора текущего пользователя.
func (s *DonorService) Create(ctx context.Context, userUID string, req models.DummyDonorProfile) (int, error) {
	lastDonationPtr, err := parseLastDonation(req.LastDonationDate)
	if err != nil {
		return 0, err
	}

	profile := models.DonorProfile{
		UserUID:          userUID,
		BloodGroup:       req.BloodGroup,
		Age:              req.Age,
		LastDonationDate: lastDonationPtr,
	}
	matching.RefreshAvailability(&profile, dateutil.Today())

	id, err := s.repo.CreateDonorProfile(ctx, profile)
	if err != nil {
		return 0, err
	}
	s.log.Info("created donor profile", slog.Int("id", id))
	return id, nil
}

// Get возвращает анкету донора пользователя, nil если анкеты нет.
func (s *DonorService) Get(ctx context.Context, userUID string) (*models.DonorProfile, error) {
	var result *models.DonorProfile
	cacheKey := donorCacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetDonorProfileByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет анкету донора пользователя и возвращает количество
// изменённых строк.
func (s *DonorService) Update(ctx context.Context, userUID string, req models.DummyDonorProfile) (int, error) {
	lastDonationPtr, err := parseLastDonation(req.LastDonationDate)
	if err != nil {
		return 0, err
	}
	profile := models.DonorProfile{
		BloodGroup:       req.BloodGroup,
		Age:              req.Age,
		LastDonationDate: lastDonationPtr,
	}

	res, err := s.repo.UpdateDonorProfile(ctx, profile, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated donor profile in storage")

	cacheKey := donorCacheKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// List возвращает список анкет доноров с фильтрами и пагинацией.
func (s *DonorService) List(ctx context.Context, filter models.DonorFilter, limit, offset int) ([]*models.DonorProfile, error) {
	donors, err := s.repo.ListDonors(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return donors, nil
}

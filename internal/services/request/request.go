// Package services содержит логику бизнес-уровня для работы с заявками на кровь.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/dateutil"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// RequestRepository описывает контракт хранилища заявок на кровь.
type RequestRepository interface {
	CreateEntry(ctx context.Context, entry models.BloodRequest) (int, error)
	ReadEntry(ctx context.Context, id int) (*models.BloodRequest, error)
	UpdateEntry(ctx context.Context, entry models.BloodRequest, id int, userUID, role string) (int, error)
	RemoveEntry(ctx context.Context, id int, userUID, role string) (int, error)
	ListEntrys(ctx context.Context, userUID string, filter models.RequestFilter, limit, offset int) ([]*models.BloodRequest, error)
	ListMyEntrys(ctx context.Context, userUID string, limit, offset int) ([]*models.BloodRequest, error)
}

// Cache описывает контракт кэша ответов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RequestService реализует CRUD-операции над заявками на кровь.
type RequestService struct {
	repo  RequestRepository
	cache Cache
	log   *slog.Logger
}

// NewRequestService создает новый экземпляр RequestService.
func NewRequestService(repo RequestRepository, cache Cache, log *slog.Logger) *RequestService {
	return &RequestService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func requestCacheKey(id int) string {
	return fmt.Sprintf("request:%d", id)
}

// Create создает новую заявку на кровь от имени текущего пользователя.
func (s *RequestService) Create(ctx context.Context, userUID string, req models.DummyBloodRequest) (int, error) {
	donationDate, err := dateutil.ParseDate(req.DonationDate)
	if err != nil {
		return 0, fmt.Errorf("invalid donation date: %w", err)
	}

	entry := models.BloodRequest{
		RecipientUID: userUID,
		BloodGroup:   req.BloodGroup,
		BagsNeeded:   req.BagsNeeded,
		HospitalName: req.HospitalName,
		DonationDate: donationDate,
	}

	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new blood request", slog.Int("id", id))
	return id, nil
}

// Read возвращает заявку по её ID.
func (s *RequestService) Read(ctx context.Context, id int) (*models.BloodRequest, error) {
	var result *models.BloodRequest
	cacheKey := requestCacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет заявку по её ID и возвращает количество изменённых строк.
// Изменение разрешено только получателю заявки или администратору.
func (s *RequestService) Update(ctx context.Context, req models.DummyBloodRequest, id int, userUID, role string) (int, error) {
	donationDate, err := dateutil.ParseDate(req.DonationDate)
	if err != nil {
		return 0, fmt.Errorf("invalid donation date: %w", err)
	}
	entry := models.BloodRequest{
		BloodGroup:   req.BloodGroup,
		BagsNeeded:   req.BagsNeeded,
		HospitalName: req.HospitalName,
		DonationDate: donationDate,
	}
	res, err := s.repo.UpdateEntry(ctx, entry, id, userUID, role)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated blood request in storage", slog.Int("id", id))

	cacheKey := requestCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет заявку по её ID и возвращает количество удалённых строк.
// Удаление разрешено только получателю заявки или администратору.
func (s *RequestService) Remove(ctx context.Context, id int, userUID, role string) (int, error) {
	cacheKey := requestCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveEntry(ctx, id, userUID, role)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает список чужих заявок с фильтрами и пагинацией.
func (s *RequestService) List(ctx context.Context, userUID string, filter models.RequestFilter, limit, offset int) ([]*models.BloodRequest, error) {
	entries, err := s.repo.ListEntrys(ctx, userUID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListMy возвращает список собственных заявок пользователя с пагинацией.
func (s *RequestService) ListMy(ctx context.Context, userUID string, limit, offset int) ([]*models.BloodRequest, error) {
	entries, err := s.repo.ListMyEntrys(ctx, userUID, limit, offset)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

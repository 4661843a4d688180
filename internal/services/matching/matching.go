// Package services содержит логику бизнес-уровня принятия и отзыва заявок
// донорами: транзакционный вызов хранилища, инвалидация кэша, метрики
// и публикация событий для почтовых уведомлений.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/dateutil"
	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
	"github.com/magabrotheeeer/blood-donation-backend/internal/metrics"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// MatchingRepository описывает контракт хранилища для операций сопоставления.
type MatchingRepository interface {
	AcceptEntry(ctx context.Context, requestID int, donorUID string, now time.Time) error
	WithdrawEntry(ctx context.Context, requestID int, donorUID string, now time.Time) error
	ReadEntry(ctx context.Context, id int) (*models.BloodRequest, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Cache описывает контракт кэша ответов.
type Cache interface {
	Invalidate(key string) error
}

// EventPublisher описывает контракт публикации событий донорства.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// MatchingService реализует принятие и отзыв заявок донорами.
type MatchingService struct {
	repo    MatchingRepository
	cache   Cache
	events  EventPublisher
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewMatchingService создает новый экземпляр MatchingService.
func NewMatchingService(repo MatchingRepository, cache Cache, events EventPublisher,
	m *metrics.Metrics, log *slog.Logger) *MatchingService {
	return &MatchingService{
		repo:    repo,
		cache:   cache,
		events:  events,
		metrics: m,
		log:     log,
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, matching.ErrExpiredRequest):
		return "expired"
	case errors.Is(err, matching.ErrMissingProfile):
		return "missing_profile"
	case errors.Is(err, matching.ErrBloodGroupMismatch):
		return "blood_group_mismatch"
	case errors.Is(err, matching.ErrDonorUnavailable):
		return "donor_unavailable"
	case errors.Is(err, matching.ErrRequestFullyCovered):
		return "fully_covered"
	case errors.Is(err, matching.ErrAlreadyAccepted):
		return "already_accepted"
	case errors.Is(err, matching.ErrSelfDonation):
		return "self_donation"
	case errors.Is(err, matching.ErrNotADonor):
		return "not_a_donor"
	case errors.Is(err, matching.ErrWithdrawalClosed):
		return "window_closed"
	case errors.Is(err, matching.ErrRequestNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Accept добавляет текущего пользователя донором к заявке.
func (s *MatchingService) Accept(ctx context.Context, requestID int, donorUID string) error {
	err := s.repo.AcceptEntry(ctx, requestID, donorUID, time.Now().UTC())
	s.metrics.IncAccept(outcomeLabel(err))
	if err != nil {
		return err
	}
	s.log.Info("donor accepted request",
		slog.Int("request_id", requestID), slog.String("donor_uid", donorUID))

	s.invalidate(requestID, donorUID)
	s.publishEvent(ctx, "accepted", requestID, donorUID)
	return nil
}

// Withdraw отзывает текущего пользователя из доноров заявки.
func (s *MatchingService) Withdraw(ctx context.Context, requestID int, donorUID string) error {
	err := s.repo.WithdrawEntry(ctx, requestID, donorUID, time.Now().UTC())
	s.metrics.IncWithdraw(outcomeLabel(err))
	if err != nil {
		return err
	}
	s.log.Info("donor withdrew from request",
		slog.Int("request_id", requestID), slog.String("donor_uid", donorUID))

	s.invalidate(requestID, donorUID)
	s.publishEvent(ctx, "withdrawn", requestID, donorUID)
	return nil
}

func (s *MatchingService) invalidate(requestID int, donorUID string) {
	for _, key := range []string{
		fmt.Sprintf("request:%d", requestID),
		fmt.Sprintf("donor:%s", donorUID),
	} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}

// publishEvent собирает и публикует событие для почтовых уведомлений.
// Ошибки публикации не откатывают уже зафиксированную операцию.
func (s *MatchingService) publishEvent(ctx context.Context, routingKey string, requestID int, donorUID string) {
	entry, err := s.repo.ReadEntry(ctx, requestID)
	if err != nil {
		s.log.Warn("failed to read request for event", slog.Any("err", err))
		return
	}
	donor, err := s.repo.GetUser(ctx, donorUID)
	if err != nil {
		s.log.Warn("failed to read donor for event", slog.Any("err", err))
		return
	}

	event := models.DonationEvent{
		RequestID:       entry.ID,
		BloodGroup:      entry.BloodGroup,
		HospitalName:    entry.HospitalName,
		DonationDate:    dateutil.FormatDate(entry.DonationDate),
		RecipientEmail:  entry.RecipientEmail,
		DonorEmail:      donor.Email,
		DonorUsername:   donor.Username,
		BagsStillNeeded: entry.BagsStillNeeded(),
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish donation event",
			slog.String("routing_key", routingKey), slog.Any("err", err))
	}
}

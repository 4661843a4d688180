// Package services содержит логику бизнес-уровня для сборки сводки
// пользователя: активные заявки, история и счётчики.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/dateutil"
	"github.com/magabrotheeeer/blood-donation-backend/internal/metrics"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// DashboardRepository описывает контракт хранилища для сборки сводки.
type DashboardRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetDonorProfileByUserUID(ctx context.Context, userUID string) (*models.DonorProfile, error)
	ListOngoingRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error)
	ListUpcomingDonations(ctx context.Context, userUID string) ([]*models.BloodRequest, error)
	ListDonatedRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error)
	ListReceivedRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error)
	ListCanceledRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error)
}

// DashboardService собирает сводку пользователя из хранилища.
type DashboardService struct {
	repo    DashboardRepository
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(repo DashboardRepository, m *metrics.Metrics, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo:    repo,
		metrics: m,
		log:     log,
	}
}

// Show возвращает сводку пользователя: данные учётной записи, анкету донора,
// активные заявки, историю и счётчики. Счётчик завершённых донаций считается
// по прошедшим заявкам, в которых пользователь был донором; при отсутствии
// анкеты доступность в счётчиках равна false.
func (s *DashboardService) Show(ctx context.Context, userUID string) (*models.Dashboard, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDashboard(time.Since(start))
	}()

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetDonorProfileByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}

	ongoing, err := s.repo.ListOngoingRequests(ctx, userUID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.ListUpcomingDonations(ctx, userUID)
	if err != nil {
		return nil, err
	}
	donated, err := s.repo.ListDonatedRequests(ctx, userUID)
	if err != nil {
		return nil, err
	}
	received, err := s.repo.ListReceivedRequests(ctx, userUID)
	if err != nil {
		return nil, err
	}
	canceled, err := s.repo.ListCanceledRequests(ctx, userUID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		UserDetails: models.UserDetails{
			UID:        user.UID,
			Username:   user.Username,
			Email:      user.Email,
			DateJoined: dateutil.FormatDate(user.CreatedAt),
		},
		DonorProfile: profile,
		Active: models.ActiveSection{
			OngoingRequests:   ongoing,
			UpcomingDonations: upcoming,
		},
		History: models.HistorySection{
			Donated:  donated,
			Received: received,
			Canceled: canceled,
		},
		Stats: models.SummaryStats{
			TotalCompletedDonations: len(donated),
			TotalReceivedRequests:   len(received),
		},
	}
	if profile != nil {
		dashboard.Stats.IsAvailable = profile.IsAvailable
	}

	s.log.Info("dashboard assembled", slog.String("user_uid", userUID))
	return dashboard, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

func (s *Storage) listRequests(ctx context.Context, op, condition string, args ...any) ([]*models.BloodRequest, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := requestSelect + `
		   WHERE ` + condition + `
		   GROUP BY r.id, u.email
		   ORDER BY r.donation_date, r.id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.BloodRequest
	for rows.Next() {
		item, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListOngoingRequests возвращает собственные заявки пользователя,
// дата донации которых ещё не прошла.
func (s *Storage) ListOngoingRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error) {
	return s.listRequests(ctx, "storage.ListOngoingRequests",
		`r.recipient_uid = $1 AND r.donation_date >= CURRENT_DATE`, userUID)
}

// ListUpcomingDonations возвращает принятые пользователем заявки,
// дата донации которых ещё не прошла.
func (s *Storage) ListUpcomingDonations(ctx context.Context, userUID string) ([]*models.BloodRequest, error) {
	return s.listRequests(ctx, "storage.ListUpcomingDonations",
		`r.donation_date >= CURRENT_DATE AND EXISTS (
			SELECT 1 FROM request_donors m
			WHERE m.request_id = r.id AND m.donor_uid::text = $1
		 )`, userUID)
}

// ListDonatedRequests возвращает заявки с прошедшей датой донации,
// в которых пользователь был донором.
func (s *Storage) ListDonatedRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error) {
	return s.listRequests(ctx, "storage.ListDonatedRequests",
		`r.donation_date < CURRENT_DATE AND EXISTS (
			SELECT 1 FROM request_donors m
			WHERE m.request_id = r.id AND m.donor_uid::text = $1
		 )`, userUID)
}

// ListReceivedRequests возвращает собственные заявки пользователя с прошедшей
// датой донации, к которым присоединился хотя бы один донор.
func (s *Storage) ListReceivedRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error) {
	return s.listRequests(ctx, "storage.ListReceivedRequests",
		`r.recipient_uid = $1 AND r.donation_date < CURRENT_DATE AND EXISTS (
			SELECT 1 FROM request_donors m WHERE m.request_id = r.id
		 )`, userUID)
}

// ListCanceledRequests возвращает собственные заявки пользователя с прошедшей
// датой донации, оставшиеся без единого донора.
func (s *Storage) ListCanceledRequests(ctx context.Context, userUID string) ([]*models.BloodRequest, error) {
	return s.listRequests(ctx, "storage.ListCanceledRequests",
		`r.recipient_uid = $1 AND r.donation_date < CURRENT_DATE AND NOT EXISTS (
			SELECT 1 FROM request_donors m WHERE m.request_id = r.id
		 )`, userUID)
}

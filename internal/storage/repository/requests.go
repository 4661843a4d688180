package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Базовый запрос заявки с агрегацией доноров. Массивы отдаются строками
// через запятую, чтобы не тянуть отдельный сканер postgres-массивов.
const requestSelect = `SELECT r.id, r.recipient_uid, u.email, r.blood_group, r.bags_needed,
			   r.hospital_name, r.donation_date, r.is_fulfilled, r.created_at,
			   COALESCE(ARRAY_TO_STRING(ARRAY_AGG(rd.donor_uid::text ORDER BY rd.accepted_at)
				   FILTER (WHERE rd.donor_uid IS NOT NULL), ','), ''),
			   COALESCE(ARRAY_TO_STRING(ARRAY_AGG(du.email ORDER BY rd.accepted_at)
				   FILTER (WHERE du.email IS NOT NULL), ','), '')
		   FROM blood_requests r
		   JOIN users u ON u.uid = r.recipient_uid
		   LEFT JOIN request_donors rd ON rd.request_id = r.id
		   LEFT JOIN users du ON du.uid = rd.donor_uid`

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func scanRequest(row interface{ Scan(...any) error }) (*models.BloodRequest, error) {
	var r models.BloodRequest
	var donorUIDs, donorEmails string
	if err := row.Scan(&r.ID, &r.RecipientUID, &r.RecipientEmail, &r.BloodGroup,
		&r.BagsNeeded, &r.HospitalName, &r.DonationDate, &r.IsFulfilled,
		&r.CreatedAt, &donorUIDs, &donorEmails); err != nil {
		return nil, err
	}
	r.DonorUIDs = splitList(donorUIDs)
	r.DonorEmails = splitList(donorEmails)
	return &r, nil
}

// CreateEntry вставляет новую заявку на кровь и возвращает её ID.
func (s *Storage) CreateEntry(ctx context.Context, entry models.BloodRequest) (int, error) {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO blood_requests (recipient_uid, blood_group, bags_needed,
			      hospital_name, donation_date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.RecipientUID, entry.BloodGroup, entry.BagsNeeded,
		entry.HospitalName, entry.DonationDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadEntry возвращает заявку по её ID вместе со списком принявших доноров.
func (s *Storage) ReadEntry(ctx context.Context, id int) (*models.BloodRequest, error) {
	const op = "storage.ReadEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := requestSelect + `
		   WHERE r.id = $1
		   GROUP BY r.id, u.email`
	row := s.DB.QueryRowContext(ctx, query, id)
	result, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, matching.ErrRequestNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEntry обновляет заявку по её ID. Изменение разрешено только
// получателю заявки или администратору.
func (s *Storage) UpdateEntry(ctx context.Context, entry models.BloodRequest, id int, userUID, role string) (int, error) {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var recipientUID string
	err = tx.QueryRowContext(ctx,
		`SELECT recipient_uid FROM blood_requests WHERE id = $1 FOR UPDATE`, id).
		Scan(&recipientUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, matching.ErrRequestNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if recipientUID != userUID && role != "admin" {
		return 0, fmt.Errorf("%s: %w", op, matching.ErrUnauthorized)
	}

	query := `UPDATE blood_requests
			  SET blood_group = $1, bags_needed = $2, hospital_name = $3, donation_date = $4,
			      is_fulfilled = (SELECT COUNT(*) FROM request_donors WHERE request_id = $5) >= $2
			  WHERE id = $5`
	result, err := tx.ExecContext(ctx, query,
		entry.BloodGroup, entry.BagsNeeded, entry.HospitalName, entry.DonationDate, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveEntry удаляет заявку по её ID. Удаление разрешено только
// получателю заявки или администратору.
func (s *Storage) RemoveEntry(ctx context.Context, id int, userUID, role string) (int, error) {
	const op = "storage.RemoveEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var recipientUID string
	err = tx.QueryRowContext(ctx,
		`SELECT recipient_uid FROM blood_requests WHERE id = $1 FOR UPDATE`, id).
		Scan(&recipientUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, matching.ErrRequestNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if recipientUID != userUID && role != "admin" {
		return 0, fmt.Errorf("%s: %w", op, matching.ErrUnauthorized)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM blood_requests WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListEntrys возвращает список чужих заявок с фильтрами и пагинацией.
// Собственные заявки пользователя из общего списка исключаются.
func (s *Storage) ListEntrys(ctx context.Context, userUID string, filter models.RequestFilter, limit, offset int) ([]*models.BloodRequest, error) {
	const op = "storage.ListEntrys"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := requestSelect + `
		   WHERE r.recipient_uid != $1
		     AND ($2::text IS NULL OR r.blood_group = $2)
		     AND ($3::text IS NULL OR r.hospital_name ILIKE '%' || $3 || '%')
		   GROUP BY r.id, u.email
		   ORDER BY r.donation_date, r.id
		   LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, userUID, filter.BloodGroup, filter.Hospital, limit, offset)
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

// ListMyEntrys возвращает список собственных заявок пользователя с пагинацией.
func (s *Storage) ListMyEntrys(ctx context.Context, userUID string, limit, offset int) ([]*models.BloodRequest, error) {
	const op = "storage.ListMyEntrys"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := requestSelect + `
		   WHERE r.recipient_uid = $1
		   GROUP BY r.id, u.email
		   ORDER BY r.donation_date, r.id
		   LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
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

// AcceptEntry атомарно добавляет донора к заявке. Строка заявки блокируется
// на время транзакции, поэтому проверка вместимости и вставка выполняются
// последовательно даже при конкурентных откликах. Бизнес-отказы возвращаются
// ошибками пакета matching.
func (s *Storage) AcceptEntry(ctx context.Context, requestID int, donorUID string, now time.Time) error {
	const op = "storage.AcceptEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var req models.BloodRequest
	err = tx.QueryRowContext(ctx,
		`SELECT id, recipient_uid, blood_group, bags_needed, donation_date
		 FROM blood_requests WHERE id = $1 FOR UPDATE`, requestID).
		Scan(&req.ID, &req.RecipientUID, &req.BloodGroup, &req.BagsNeeded, &req.DonationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, matching.ErrRequestNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var donorCount int
	var alreadyDonor bool
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(BOOL_OR(donor_uid::text = $2), FALSE)
		 FROM request_donors WHERE request_id = $1`, requestID, donorUID).
		Scan(&donorCount, &alreadyDonor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var profile *models.DonorProfile
	var p models.DonorProfile
	var lastDonation sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT d.id, d.user_uid, d.blood_group, d.age, d.last_donation_date, `+availabilityExpr+`
		 FROM donor_profiles d WHERE d.user_uid = $1`, donorUID).
		Scan(&p.ID, &p.UserUID, &p.BloodGroup, &p.Age, &lastDonation, &p.IsAvailable)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		profile = nil
	case err != nil:
		return fmt.Errorf("%s: %w", op, err)
	default:
		if lastDonation.Valid {
			p.LastDonationDate = &lastDonation.Time
		}
		profile = &p
	}

	if err = matching.CheckAccept(&req, profile, donorCount, alreadyDonor, donorUID, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO request_donors (request_id, donor_uid) VALUES ($1, $2)`,
		requestID, donorUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE blood_requests SET is_fulfilled = $2 WHERE id = $1`,
		requestID, matching.Fulfilled(donorCount+1, req.BagsNeeded))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Дата донации заявки становится датой последней донации донора,
	// восстановление отсчитывается от неё.
	_, err = tx.ExecContext(ctx,
		`UPDATE donor_profiles
		 SET last_donation_date = $2, is_available = FALSE
		 WHERE user_uid = $1`, donorUID, req.DonationDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WithdrawEntry атомарно отзывает донора из заявки. Отзыв возможен только
// строго до даты донации; после удаления флаг заполненности пересчитывается,
// а доступность донора восстанавливается, если дата его последней донации
// указывала на эту заявку.
func (s *Storage) WithdrawEntry(ctx context.Context, requestID int, donorUID string, now time.Time) error {
	const op = "storage.WithdrawEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var bagsNeeded int
	var donationDate time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT bags_needed, donation_date
		 FROM blood_requests WHERE id = $1 FOR UPDATE`, requestID).
		Scan(&bagsNeeded, &donationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, matching.ErrRequestNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var isDonor bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM request_donors WHERE request_id = $1 AND donor_uid = $2
		 )`, requestID, donorUID).Scan(&isDonor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = matching.CheckWithdraw(isDonor, donationDate, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM request_donors WHERE request_id = $1 AND donor_uid = $2`,
		requestID, donorUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE blood_requests
		 SET is_fulfilled = (SELECT COUNT(*) FROM request_donors WHERE request_id = $1) >= $2
		 WHERE id = $1`, requestID, bagsNeeded)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE donor_profiles
		 SET last_donation_date = NULL, is_available = TRUE
		 WHERE user_uid = $1 AND last_donation_date = $2`, donorUID, donationDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

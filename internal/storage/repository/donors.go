package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Выражение доступности донора: правило 90 дней, вычисляется при каждом
// чтении от даты последней донации.
const availabilityExpr = `(d.last_donation_date IS NULL
		OR d.last_donation_date + INTERVAL '90 days' <= CURRENT_DATE)`

// CreateDonorProfile вставляет новую анкету донора и возвращает её ID.
// Повторная анкета того же пользователя возвращает matching.ErrDuplicateProfile.
func (s *Storage) CreateDonorProfile(ctx context.Context, profile models.DonorProfile) (int, error) {
	const op = "storage.CreateDonorProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO donor_profiles (user_uid, blood_group, age, last_donation_date, is_available)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		profile.UserUID, profile.BloodGroup, profile.Age,
		profile.LastDonationDate, profile.IsAvailable).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%s: %w", op, matching.ErrDuplicateProfile)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetDonorProfileByUserUID возвращает анкету донора вместе с данными владельца.
// Возвращает (nil, nil), если анкеты нет.
func (s *Storage) GetDonorProfileByUserUID(ctx context.Context, userUID string) (*models.DonorProfile, error) {
	const op = "storage.GetDonorProfileByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT d.id, d.user_uid, u.username, u.email, d.blood_group, d.age,
				  d.last_donation_date, ` + availabilityExpr + ` AS is_available
			  FROM donor_profiles d
			  JOIN users u ON u.uid = d.user_uid
			  WHERE d.user_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var p models.DonorProfile
	var lastDonation sql.NullTime
	if err := row.Scan(&p.ID, &p.UserUID, &p.Username, &p.Email, &p.BloodGroup,
		&p.Age, &lastDonation, &p.IsAvailable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if lastDonation.Valid {
		p.LastDonationDate = &lastDonation.Time
	}
	return &p, nil
}

// UpdateDonorProfile обновляет анкету донора пользователя и возвращает
// количество изменённых строк.
func (s *Storage) UpdateDonorProfile(ctx context.Context, profile models.DonorProfile, userUID string) (int, error) {
	const op = "storage.UpdateDonorProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE donor_profiles
			  SET blood_group = $1, age = $2, last_donation_date = $3,
			      is_available = ($3::date IS NULL
				      OR $3::date + INTERVAL '90 days' <= CURRENT_DATE)
			  WHERE user_uid = $4`
	result, err := s.DB.ExecContext(ctx, query,
		profile.BloodGroup, profile.Age, profile.LastDonationDate, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListDonors возвращает список анкет доноров с фильтрами и пагинацией.
func (s *Storage) ListDonors(ctx context.Context, filter models.DonorFilter, limit, offset int) ([]*models.DonorProfile, error) {
	const op = "storage.ListDonors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT d.id, d.user_uid, u.username, u.email, d.blood_group, d.age,
				  d.last_donation_date, ` + availabilityExpr + ` AS is_available
			  FROM donor_profiles d
			  JOIN users u ON u.uid = d.user_uid
			  WHERE ($1::text IS NULL OR d.blood_group = $1)
			    AND ($2::boolean IS NULL OR ` + availabilityExpr + ` = $2)
			  ORDER BY d.id
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, filter.BloodGroup, filter.IsAvailable, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DonorProfile
	for rows.Next() {
		var p models.DonorProfile
		var lastDonation sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserUID, &p.Username, &p.Email, &p.BloodGroup,
			&p.Age, &lastDonation, &p.IsAvailable); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if lastDonation.Valid {
			p.LastDonationDate = &lastDonation.Time
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

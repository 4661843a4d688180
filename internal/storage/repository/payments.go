package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// CreateTransaction сохраняет новую платёжную транзакцию в статусе PENDING
// и возвращает её ID.
func (s *Storage) CreateTransaction(ctx context.Context, tran models.DonationTransaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO donation_transactions (tran_id, user_uid, amount, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		tran.TranID, tran.UserUID, tran.Amount, models.TransactionPending).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTransactionByTranID возвращает транзакцию по её платёжному идентификатору.
// Возвращает (nil, nil), если транзакции нет.
func (s *Storage) GetTransactionByTranID(ctx context.Context, tranID string) (*models.DonationTransaction, error) {
	const op = "storage.GetTransactionByTranID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tran_id, user_uid, amount, status, created_at
			  FROM donation_transactions
			  WHERE tran_id = $1`
	var t models.DonationTransaction
	row := s.DB.QueryRowContext(ctx, query, tranID)
	if err := row.Scan(&t.ID, &t.TranID, &t.UserUID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// UpdateTransactionStatus переводит транзакцию из PENDING в терминальный статус
// и возвращает количество изменённых строк. Повторный обратный вызов шлюза
// не меняет уже зафиксированный статус: условие по PENDING делает переход
// однократным.
func (s *Storage) UpdateTransactionStatus(ctx context.Context, tranID, status string) (int, error) {
	const op = "storage.UpdateTransactionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE donation_transactions
			  SET status = $2
			  WHERE tran_id = $1 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, tranID, status, models.TransactionPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTransactions возвращает список транзакций пользователя, новые первыми.
func (s *Storage) ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.DonationTransaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tran_id, user_uid, amount, status, created_at
			  FROM donation_transactions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DonationTransaction
	for rows.Next() {
		var t models.DonationTransaction
		if err := rows.Scan(&t.ID, &t.TranID, &t.UserUID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

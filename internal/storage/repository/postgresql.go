// Package repository реализует хранилище данных на основе PostgreSQL
// для сервиса донорства крови. Предоставляет методы работы с пользователями,
// анкетами доноров, заявками на кровь, платёжными транзакциями и сводкой,
// а транзакционные операции принятия и отзыва заявок выполняет атомарно
// с блокировкой строки заявки.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с доменными сущностями сервиса.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'blood_requests'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table blood_requests missing or query error: %w", err)
	}
	return nil
}

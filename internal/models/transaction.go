package models

import "time"

// Статусы платёжной транзакции. Транзакция создаётся в PENDING и ровно один
// раз переходит в терминальный статус по обратному вызову шлюза.
const (
	TransactionPending = "PENDING"
	TransactionSuccess = "SUCCESS"
	TransactionFailed  = "FAILED"
)

// DonationTransaction представляет запись платёжного журнала о денежном
// пожертвовании пользователя.
type DonationTransaction struct {
	ID        int       // Идентификатор записи
	TranID    string    // Уникальный идентификатор транзакции для шлюза
	UserUID   string    // Пользователь, инициировавший платёж
	Amount    float64   // Сумма пожертвования
	Status    string    // PENDING, SUCCESS или FAILED
	CreatedAt time.Time // Дата создания записи
}

// DummyPayment используется для приёма суммы пожертвования из JSON-запроса.
type DummyPayment struct {
	Amount float64 `json:"amount" validate:"required,gt=0"` // Сумма (>0)
}

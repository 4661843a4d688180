package models

import "time"

// DonorProfile представляет анкету донора. Анкета создаётся один раз на
// пользователя; поле IsAvailable производное и пересчитывается при каждом
// чтении и сохранении от LastDonationDate (правило 90 дней), а операции
// принятия и отзыва заявки переопределяют его напрямую.
type DonorProfile struct {
	ID               int        // Идентификатор анкеты
	UserUID          string     // Владелец анкеты (один к одному)
	Username         string     // Имя пользователя владельца
	Email            string     // Почта владельца
	BloodGroup       string     // Группа крови, одна из восьми
	Age              int        // Возраст, положительное число
	LastDonationDate *time.Time // Дата последней донации, nil если донаций не было
	IsAvailable      bool       // Доступен ли донор для новых заявок
}

// DummyDonorProfile используется для приёма данных анкеты из JSON-запроса,
// прежде чем конвертировать их в DonorProfile.
// Дата приходит строкой в формате 2006-01-02, чтобы её можно было
// валидировать и парсить вручную.
type DummyDonorProfile struct {
	BloodGroup       string `json:"blood_group" validate:"required,oneof=O+ O- A+ A- B+ B- AB+ AB-"` // Группа крови
	Age              int    `json:"age" validate:"required,gt=0"`                                    // Возраст (>0)
	LastDonationDate string `json:"last_donation_date,omitempty" validate:"omitempty"`               // Дата последней донации (опционально)
}

// DonorFilter представляет параметры фильтрации списка доноров.
type DonorFilter struct {
	BloodGroup  *string // Группа крови (nil, если фильтра нет)
	IsAvailable *bool   // Доступность (nil, если фильтра нет)
}

package models

import "time"

// BloodRequest представляет заявку на кровь. Множество доноров хранится в
// отдельной таблице связей с уникальностью пары (заявка, донор); поле
// IsFulfilled производное: true, когда доноров не меньше BagsNeeded.
type BloodRequest struct {
	ID             int       // Идентификатор заявки
	RecipientUID   string    // Получатель, автор заявки
	RecipientEmail string    // Почта получателя (для выдачи наружу)
	BloodGroup     string    // Требуемая группа крови
	BagsNeeded     int       // Сколько пакетов крови нужно
	HospitalName   string    // Название больницы
	DonationDate   time.Time // Дата, на которую назначена донация
	IsFulfilled    bool      // Набрано ли нужное число доноров
	CreatedAt      time.Time // Дата создания заявки
	DonorUIDs      []string  // Идентификаторы принявших доноров
	DonorEmails    []string  // Почты принявших доноров
}

// BagsStillNeeded возвращает, сколько пакетов ещё не закрыто донорами.
func (r *BloodRequest) BagsStillNeeded() int {
	left := r.BagsNeeded - len(r.DonorUIDs)
	if left < 0 {
		return 0
	}
	return left
}

// DummyBloodRequest используется для приёма данных заявки из JSON-запроса,
// прежде чем конвертировать их в BloodRequest. Дата приходит строкой
// в формате 2006-01-02.
type DummyBloodRequest struct {
	BloodGroup   string `json:"blood_group" validate:"required,oneof=O+ O- A+ A- B+ B- AB+ AB-"` // Группа крови
	BagsNeeded   int    `json:"bags_needed" validate:"required,gt=0"`                            // Число пакетов (>0)
	HospitalName string `json:"hospital_name,omitempty" validate:"omitempty"`                    // Больница (опционально)
	DonationDate string `json:"donation_date" validate:"required"`                               // Дата донации в формате 2006-01-02
}

// RequestFilter представляет параметры фильтрации списка заявок.
type RequestFilter struct {
	BloodGroup *string // Группа крови (nil, если фильтра нет)
	Hospital   *string // Подстрока названия больницы (nil, если фильтра нет)
}

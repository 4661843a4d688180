// Package matching реализует чистые правила допуска доноров к заявкам:
// проверки перед принятием и отзывом, правило 90-дневного восстановления
// и пересчёт производных флагов. Пакет не имеет состояния и не обращается
// к хранилищу: все решения принимаются по переданным значениям, а слой
// хранения выполняет их внутри одной транзакции.
package matching

import (
	"time"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/dateutil"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// CooldownDays — период восстановления после донации, в течение которого
// донор не может принимать новые заявки.
const CooldownDays = 90

// BloodGroups — восемь допустимых групп крови.
var BloodGroups = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

// ValidBloodGroup сообщает, входит ли значение в список допустимых групп.
func ValidBloodGroup(group string) bool {
	for _, g := range BloodGroups {
		if g == group {
			return true
		}
	}
	return false
}

// Available вычисляет доступность донора по дате последней донации:
// донор доступен, если донаций не было или прошло не меньше CooldownDays.
// Восстановление ленивое: формула применяется при каждом чтении и
// сохранении анкеты, фоновых задач нет.
func Available(lastDonation *time.Time, today time.Time) bool {
	if lastDonation == nil {
		return true
	}
	nextAvailable := dateutil.Truncate(*lastDonation).AddDate(0, 0, CooldownDays)
	return !dateutil.Truncate(today).Before(nextAvailable)
}

// RefreshAvailability пересчитывает производное поле IsAvailable анкеты.
// Вызывается при каждой загрузке и каждом сохранении анкеты; активные
// переходы (принятие и отзыв) выставляют поле напрямую и записывают
// согласованную дату, поэтому пересчёт их не отменяет.
func RefreshAvailability(p *models.DonorProfile, today time.Time) {
	if p == nil {
		return
	}
	p.IsAvailable = Available(p.LastDonationDate, today)
}

// Fulfilled вычисляет производный флаг заявки: набрано ли нужное число
// доноров. Инвариант is_fulfilled == (count >= bagsNeeded) обязан
// выполняться после каждой мутации множества доноров.
func Fulfilled(donorCount, bagsNeeded int) bool {
	return donorCount >= bagsNeeded
}

// CheckAccept проверяет условия принятия заявки донором. Проверки идут в
// фиксированном порядке, возвращается первый отказ; побочных эффектов нет,
// мутации применяются вызывающей стороной только после успеха всех проверок.
func CheckAccept(req *models.BloodRequest, profile *models.DonorProfile,
	donorCount int, alreadyDonor bool, donorUID string, now time.Time) error {
	if dateutil.Truncate(now).After(dateutil.Truncate(req.DonationDate)) {
		return ErrExpiredRequest
	}
	if profile == nil {
		return ErrMissingProfile
	}
	if profile.BloodGroup != req.BloodGroup {
		return ErrBloodGroupMismatch
	}
	if !profile.IsAvailable {
		return ErrDonorUnavailable
	}
	if donorCount >= req.BagsNeeded {
		return ErrRequestFullyCovered
	}
	if alreadyDonor {
		return ErrAlreadyAccepted
	}
	if req.RecipientUID == donorUID {
		return ErrSelfDonation
	}
	return nil
}

// CheckWithdraw проверяет условия отзыва донора из заявки. Отзыв возможен
// только строго до даты донации: в сам день донации и позже участие
// зафиксировано.
func CheckWithdraw(isDonor bool, donationDate, now time.Time) error {
	if !isDonor {
		return ErrNotADonor
	}
	if !dateutil.Truncate(now).Before(dateutil.Truncate(donationDate)) {
		return ErrWithdrawalClosed
	}
	return nil
}

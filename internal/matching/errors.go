package matching

import "errors"

// Ожидаемые отказы бизнес-правил. Это не сбои: они возвращаются вызывающей
// стороне с различимым кодом и никогда не повторяются автоматически.
var (
	// ErrExpiredRequest — дата донации заявки уже прошла.
	ErrExpiredRequest = errors.New("blood request has expired")
	// ErrMissingProfile — у пользователя нет анкеты донора.
	ErrMissingProfile = errors.New("donor profile not found")
	// ErrBloodGroupMismatch — группа крови донора не совпадает с заявкой.
	ErrBloodGroupMismatch = errors.New("blood group mismatch")
	// ErrDonorUnavailable — донор в периоде восстановления после донации.
	ErrDonorUnavailable = errors.New("donor is currently unavailable")
	// ErrRequestFullyCovered — заявка уже набрала нужное число доноров.
	ErrRequestFullyCovered = errors.New("request is already fully covered")
	// ErrAlreadyAccepted — донор уже принял эту заявку.
	ErrAlreadyAccepted = errors.New("request already accepted by this donor")
	// ErrSelfDonation — получатель пытается стать донором своей же заявки.
	ErrSelfDonation = errors.New("self-donation is forbidden")
	// ErrNotADonor — пользователь не числится донором заявки.
	ErrNotADonor = errors.New("user is not a donor of this request")
	// ErrWithdrawalClosed — отзыв в день донации и позже запрещён.
	ErrWithdrawalClosed = errors.New("withdrawal window is closed")
	// ErrDuplicateProfile — анкета донора уже существует.
	ErrDuplicateProfile = errors.New("donor profile already exists")
	// ErrRequestNotFound — заявка с таким идентификатором не найдена.
	ErrRequestNotFound = errors.New("blood request not found")
	// ErrUnauthorized — изменение заявки разрешено только получателю или администратору.
	ErrUnauthorized = errors.New("operation allowed only for recipient or admin")
)

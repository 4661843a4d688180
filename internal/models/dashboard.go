package models

// Dashboard представляет сводку по пользователю, разбитую по времени и роли:
// активные секции содержат заявки с датой донации сегодня или позже,
// история — строго прошедшие. Сводка только читает состояние и не имеет
// побочных эффектов.
type Dashboard struct {
	UserDetails  UserDetails    `json:"user_details"`
	DonorProfile *DonorProfile  `json:"donor_profile"` // nil, если анкеты нет
	Active       ActiveSection  `json:"active_dashboard"`
	History      HistorySection `json:"history"`
	Stats        SummaryStats   `json:"summary_stats"`
}

// UserDetails содержит данные учётной записи для шапки сводки.
type UserDetails struct {
	UID        string `json:"uid"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	DateJoined string `json:"date_joined"`
}

// ActiveSection содержит заявки, у которых дата донации ещё не прошла.
type ActiveSection struct {
	OngoingRequests   []*BloodRequest `json:"ongoing_requests"`   // Мои заявки
	UpcomingDonations []*BloodRequest `json:"upcoming_donations"` // Заявки, которые я принял
}

// HistorySection содержит заявки со строго прошедшей датой донации.
type HistorySection struct {
	Donated  []*BloodRequest `json:"donated"`  // Я был донором
	Received []*BloodRequest `json:"received"` // Мои заявки, к которым кто-то присоединился
	Canceled []*BloodRequest `json:"canceled"` // Мои заявки без единого донора
}

// SummaryStats содержит счётчики истории и текущую доступность донора.
// При отсутствии анкеты IsAvailable равно false.
type SummaryStats struct {
	TotalCompletedDonations int  `json:"total_completed_donations"`
	TotalReceivedRequests   int  `json:"total_received_requests"`
	IsAvailable             bool `json:"is_available"`
}

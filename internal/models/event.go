package models

// DonationEvent описывает событие принятия или отзыва заявки донором.
// Публикуется в брокер и потребляется сервисом почтовых уведомлений.
type DonationEvent struct {
	RequestID       int    `json:"request_id"`
	BloodGroup      string `json:"blood_group"`
	HospitalName    string `json:"hospital_name"`
	DonationDate    string `json:"donation_date"`
	RecipientEmail  string `json:"recipient_email"`
	DonorEmail      string `json:"donor_email"`
	DonorUsername   string `json:"donor_username"`
	BagsStillNeeded int    `json:"bags_still_needed"`
}

// Package services содержит логику отправки почтовых уведомлений о событиях
// донорства, потребляемых из брокера.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// SenderService отправляет письма получателям заявок о действиях доноров.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendDonationAccepted уведомляет получателя заявки о новом доноре.
func (s *SenderService) SendDonationAccepted(body []byte) error {
	var event models.DonationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.RecipientEmail}
	subject := fmt.Sprintf("Донор найден для вашей заявки №%d", event.RequestID)
	bodyText := fmt.Sprintf(
		"Здравствуйте!\n\nДонор %s принял вашу заявку на кровь группы %s (больница: %s, дата донации: %s).\nОсталось набрать пакетов: %d.",
		event.DonorUsername, event.BloodGroup, event.HospitalName, event.DonationDate, event.BagsStillNeeded)

	return s.sendEmail(to, subject, bodyText)
}

// SendDonationWithdrawn уведомляет получателя заявки об отзыве донора.
func (s *SenderService) SendDonationWithdrawn(body []byte) error {
	var event models.DonationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.RecipientEmail}
	subject := fmt.Sprintf("Донор отозвал участие в заявке №%d", event.RequestID)
	bodyText := fmt.Sprintf(
		"Здравствуйте!\n\nДонор %s отозвал участие в вашей заявке на кровь группы %s (больница: %s, дата донации: %s).\nОсталось набрать пакетов: %d.",
		event.DonorUsername, event.BloodGroup, event.HospitalName, event.DonationDate, event.BagsStillNeeded)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}

// Package services содержит логику бизнес-уровня приёма денежных пожертвований:
// создание платёжной сессии у шлюза, журнал транзакций и обработку
// обратных вызовов.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/blood-donation-backend/internal/metrics"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
	"github.com/magabrotheeeer/blood-donation-backend/internal/paymentgateway"
)

// PaymentRepository описывает контракт журнала платёжных транзакций.
type PaymentRepository interface {
	CreateTransaction(ctx context.Context, tran models.DonationTransaction) (int, error)
	GetTransactionByTranID(ctx context.Context, tranID string) (*models.DonationTransaction, error)
	UpdateTransactionStatus(ctx context.Context, tranID, status string) (int, error)
	ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.DonationTransaction, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// GatewayClient описывает контракт клиента платёжного шлюза.
type GatewayClient interface {
	CreateSession(ctx context.Context, req paymentgateway.SessionRequest) (*paymentgateway.SessionResponse, error)
}

// PaymentService реализует приём денежных пожертвований через платёжный шлюз.
type PaymentService struct {
	repo        PaymentRepository
	gateway     GatewayClient
	frontendURL string
	backendURL  string
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, gateway GatewayClient,
	frontendURL, backendURL string, m *metrics.Metrics, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:        repo,
		gateway:     gateway,
		frontendURL: frontendURL,
		backendURL:  backendURL,
		metrics:     m,
		log:         log,
	}
}

// Initiate создает транзакцию в статусе PENDING, открывает платёжную сессию
// у шлюза и возвращает адрес платёжной страницы для перенаправления.
func (s *PaymentService) Initiate(ctx context.Context, userUID string, req models.DummyPayment) (string, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}

	tranID := "don_" + uuid.New().String()
	if _, err := s.repo.CreateTransaction(ctx, models.DonationTransaction{
		TranID:  tranID,
		UserUID: userUID,
		Amount:  req.Amount,
	}); err != nil {
		return "", err
	}

	session, err := s.gateway.CreateSession(ctx, paymentgateway.SessionRequest{
		TranID:        tranID,
		Amount:        req.Amount,
		Currency:      "BDT",
		SuccessURL:    s.backendURL + "/api/v1/payment/success",
		FailURL:       s.backendURL + "/api/v1/payment/fail",
		CancelURL:     s.backendURL + "/api/v1/payment/cancel",
		CustomerName:  user.Username,
		CustomerEmail: user.Email,
	})
	if err != nil {
		// Сессия не открылась: транзакция сразу фиксируется как неуспешная
		if _, markErr := s.repo.UpdateTransactionStatus(ctx, tranID, models.TransactionFailed); markErr != nil {
			s.log.Warn("failed to mark transaction failed", slog.Any("err", markErr))
		}
		s.metrics.IncPayment("session_error")
		return "", err
	}

	s.log.Info("payment session created",
		slog.String("tran_id", tranID), slog.Float64("amount", req.Amount))
	return session.GatewayPageURL, nil
}

// Complete обрабатывает обратный вызов шлюза и возвращает адрес страницы
// фронтенда для перенаправления пользователя. Переход статуса выполняется
// ровно один раз; повторные вызовы и вызовы без идентификатора транзакции
// перенаправляют на фронтенд без изменений журнала.
func (s *PaymentService) Complete(ctx context.Context, tranID, status string) (string, error) {
	redirect := fmt.Sprintf("%s/payment/%s", s.frontendURL, pageFor(status))
	if tranID == "" {
		s.log.Warn("payment callback without tran_id")
		return s.frontendURL, nil
	}
	redirect += "?tran_id=" + tranID

	tran, err := s.repo.GetTransactionByTranID(ctx, tranID)
	if err != nil {
		return "", err
	}
	if tran == nil {
		s.log.Warn("payment callback for unknown transaction", slog.String("tran_id", tranID))
		return s.frontendURL, nil
	}

	rows, err := s.repo.UpdateTransactionStatus(ctx, tranID, status)
	if err != nil {
		return "", err
	}
	if rows == 0 {
		s.log.Info("payment callback ignored, transaction already finalized",
			slog.String("tran_id", tranID), slog.String("status", tran.Status))
		return redirect, nil
	}

	s.metrics.IncPayment(status)
	s.log.Info("payment finalized", slog.String("tran_id", tranID), slog.String("status", status))
	return redirect, nil
}

func pageFor(status string) string {
	if status == models.TransactionSuccess {
		return "success"
	}
	return "fail"
}

// History возвращает журнал транзакций пользователя с пагинацией.
func (s *PaymentService) History(ctx context.Context, userUID string, limit, offset int) ([]*models.DonationTransaction, error) {
	return s.repo.ListTransactions(ctx, userUID, limit, offset)
}

package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
	"github.com/magabrotheeeer/blood-donation-backend/internal/paymentgateway"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTransaction(ctx context.Context, tran models.DonationTransaction) (int, error) {
	args := m.Called(ctx, tran)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetTransactionByTranID(ctx context.Context, tranID string) (*models.DonationTransaction, error) {
	args := m.Called(ctx, tranID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DonationTransaction), args.Error(1)
}

func (m *RepoMock) UpdateTransactionStatus(ctx context.Context, tranID, status string) (int, error) {
	args := m.Called(ctx, tranID, status)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.DonationTransaction, error) {
	args := m.Called(ctx, userUID, limit, offset)
	return args.Get(0).([]*models.DonationTransaction), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(*models.User), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateSession(ctx context.Context, req paymentgateway.SessionRequest) (*paymentgateway.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.SessionResponse), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *RepoMock, gateway *GatewayMock) *PaymentService {
	return NewPaymentService(repo, gateway, "http://frontend", "http://backend", nil, NewNoopLogger())
}

func TestPayment_Initiate_Success(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("GetUser", mock.Anything, "user-uid").
		Return(&models.User{UID: "user-uid", Username: "payer", Email: "payer@example.com"}, nil)
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tran models.DonationTransaction) bool {
		return strings.HasPrefix(tran.TranID, "don_") && tran.UserUID == "user-uid" && tran.Amount == 500
	})).Return(1, nil)
	gateway.On("CreateSession", mock.Anything, mock.MatchedBy(func(req paymentgateway.SessionRequest) bool {
		return strings.HasPrefix(req.TranID, "don_") &&
			req.Amount == 500 &&
			req.SuccessURL == "http://backend/api/v1/payment/success" &&
			req.CustomerEmail == "payer@example.com"
	})).Return(&paymentgateway.SessionResponse{
		Status:         "SUCCESS",
		GatewayPageURL: "https://pay.example.com/session",
	}, nil)

	service := newTestService(repo, gateway)
	url, err := service.Initiate(context.Background(), "user-uid", models.DummyPayment{Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/session", url)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPayment_Initiate_SessionError(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("GetUser", mock.Anything, "user-uid").
		Return(&models.User{UID: "user-uid", Username: "payer", Email: "payer@example.com"}, nil)
	repo.On("CreateTransaction", mock.Anything, mock.Anything).Return(1, nil)
	gateway.On("CreateSession", mock.Anything, mock.Anything).Return(nil, assert.AnError)
	repo.On("UpdateTransactionStatus", mock.Anything, mock.Anything, models.TransactionFailed).Return(1, nil)

	service := newTestService(repo, gateway)
	_, err := service.Initiate(context.Background(), "user-uid", models.DummyPayment{Amount: 500})
	require.Error(t, err)

	repo.AssertCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything, models.TransactionFailed)
}

func TestPayment_Complete_Success(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("GetTransactionByTranID", mock.Anything, "don_abc").
		Return(&models.DonationTransaction{TranID: "don_abc", Status: models.TransactionPending}, nil)
	repo.On("UpdateTransactionStatus", mock.Anything, "don_abc", models.TransactionSuccess).Return(1, nil)

	service := newTestService(repo, gateway)
	redirect, err := service.Complete(context.Background(), "don_abc", models.TransactionSuccess)
	require.NoError(t, err)
	assert.Equal(t, "http://frontend/payment/success?tran_id=don_abc", redirect)
}

func TestPayment_Complete_AlreadyFinalized(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("GetTransactionByTranID", mock.Anything, "don_abc").
		Return(&models.DonationTransaction{TranID: "don_abc", Status: models.TransactionSuccess}, nil)
	repo.On("UpdateTransactionStatus", mock.Anything, "don_abc", models.TransactionFailed).Return(0, nil)

	service := newTestService(repo, gateway)
	redirect, err := service.Complete(context.Background(), "don_abc", models.TransactionFailed)
	require.NoError(t, err)
	assert.Equal(t, "http://frontend/payment/fail?tran_id=don_abc", redirect)
}

func TestPayment_Complete_UnknownTransaction(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	repo.On("GetTransactionByTranID", mock.Anything, "don_missing").Return(nil, nil)

	service := newTestService(repo, gateway)
	redirect, err := service.Complete(context.Background(), "don_missing", models.TransactionSuccess)
	require.NoError(t, err)
	assert.Equal(t, "http://frontend", redirect)
	repo.AssertNotCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayment_Complete_MissingTranID(t *testing.T) {
	repo := new(RepoMock)
	gateway := new(GatewayMock)

	service := newTestService(repo, gateway)
	redirect, err := service.Complete(context.Background(), "", models.TransactionFailed)
	require.NoError(t, err)
	assert.Equal(t, "http://frontend", redirect)
	repo.AssertNotCalled(t, "GetTransactionByTranID", mock.Anything, mock.Anything)
}

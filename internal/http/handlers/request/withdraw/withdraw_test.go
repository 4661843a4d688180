package withdraw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
)

// MockService реализует интерфейс withdraw.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Withdraw(ctx context.Context, requestID int, donorUID string) error {
	args := m.Called(ctx, requestID, donorUID)
	return args.Error(0)
}

func TestWithdrawHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешный отзыв донорства",
			serviceErr:     nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"donation withdrawn"`,
		},
		{
			name:           "заявка не найдена",
			serviceErr:     matching.ErrRequestNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `blood request not found`,
		},
		{
			name:           "пользователь не донор заявки",
			serviceErr:     matching.ErrNotADonor,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `user is not a donor of this request`,
		},
		{
			name:           "окно отзыва закрыто",
			serviceErr:     matching.ErrWithdrawalClosed,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `withdrawal window is closed`,
		},
		{
			name:           "внутренняя ошибка",
			serviceErr:     errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockService.On("Withdraw", mock.Anything, 7, "donor-uid").Return(tt.serviceErr)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/requests/7/withdraw", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "7")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "donor-uid")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

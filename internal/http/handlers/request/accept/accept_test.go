package accept

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

// MockService реализует интерфейс accept.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Accept(ctx context.Context, requestID int, donorUID string) error {
	args := m.Called(ctx, requestID, donorUID)
	return args.Error(0)
}

func TestAcceptHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		urlID          string
		donorUID       string
		serviceErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешное принятие заявки",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"request accepted"`,
		},
		{
			name:           "некорректный id в URL",
			urlID:          "abc",
			donorUID:       "donor-uid",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode id from url`,
		},
		{
			name:           "пользователь не авторизован",
			urlID:          "7",
			donorUID:       "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:           "заявка не найдена",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrRequestNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `blood request not found`,
		},
		{
			name:           "заявка просрочена",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrExpiredRequest,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `blood request has expired`,
		},
		{
			name:           "донорство своей заявки",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrSelfDonation,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `self-donation is forbidden`,
		},
		{
			name:           "заявка уже принята",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrAlreadyAccepted,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `request already accepted`,
		},
		{
			name:           "заявка укомплектована",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrRequestFullyCovered,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `request is already fully covered`,
		},
		{
			name:           "нет анкеты донора",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrMissingProfile,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `donor profile not found`,
		},
		{
			name:           "группа крови не совпадает",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrBloodGroupMismatch,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `blood group mismatch`,
		},
		{
			name:           "донор в периоде восстановления",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     matching.ErrDonorUnavailable,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `donor is currently unavailable`,
		},
		{
			name:           "внутренняя ошибка",
			urlID:          "7",
			donorUID:       "donor-uid",
			serviceErr:     errors.New("db error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.urlID == "7" && tt.donorUID != "" {
				mockService.On("Accept", mock.Anything, 7, tt.donorUID).Return(tt.serviceErr)
			}

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/requests/"+tt.urlID+"/accept", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.donorUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.donorUID)
			}
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

// Package withdraw реализует HTTP-обработчик отзыва донорства.
//
// Отзыв разрешён строго до дня донации; в день донации и позже окно закрыто.
package withdraw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/response"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
)

// Service описывает интерфейс бизнес-логики отзыва донорства.
type Service interface {
	Withdraw(ctx context.Context, requestID int, donorUID string) error
}

// Handler обрабатывает запросы доноров на отзыв донорства.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отозвать донорство
// @Description Убирает текущего пользователя из доноров заявки. Доступно строго до дня донации
// @Tags Requests
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Success 200 {object} response.Response "Донорство отозвано"
// @Failure 400 {object} response.ErrorResponse "Пользователь не донор заявки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Окно отзыва закрыто"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /requests/{id}/withdraw [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.withdraw"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	donorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || donorUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Withdraw(r.Context(), id, donorUID); err != nil {
		switch {
		case errors.Is(err, matching.ErrRequestNotFound):
			log.Info("blood request not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("blood request not found"))
		case errors.Is(err, matching.ErrNotADonor):
			log.Info("user is not a donor of this request", slog.Int("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("user is not a donor of this request"))
		case errors.Is(err, matching.ErrWithdrawalClosed):
			log.Info("withdrawal window is closed", slog.Int("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("withdrawal window is closed"))
		default:
			log.Error("failed to withdraw donation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("donation withdrawn", slog.Int("id", id), slog.String("donor_uid", donorUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "donation withdrawn",
	}))
}

// Package accept реализует HTTP-обработчик принятия заявки донором.
//
// Отказы бизнес-правил (просроченная заявка, несовпадение группы крови,
// период восстановления, полная укомплектованность и другие) различимы
// по HTTP-статусу и тексту ошибки.
package accept

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

// Service описывает интерфейс бизнес-логики принятия заявки.
type Service interface {
	Accept(ctx context.Context, requestID int, donorUID string) error
}

// Handler обрабатывает запросы доноров на принятие заявки.
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
// @Summary Принять заявку на кровь
// @Description Текущий пользователь становится донором заявки. Все предусловия проверяются атомарно
// @Tags Requests
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Success 200 {object} response.Response "Заявка принята"
// @Failure 400 {object} response.ErrorResponse "Нарушено предусловие принятия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /requests/{id}/accept [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.accept"

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

	if err := h.service.Accept(r.Context(), id, donorUID); err != nil {
		status, msg := acceptErrorStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to accept blood request", sl.Err(err))
		} else {
			log.Info("accept rejected", slog.Int("id", id), slog.String("reason", msg))
		}
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("blood request accepted", slog.Int("id", id), slog.String("donor_uid", donorUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "request accepted",
	}))
}

// acceptErrorStatus сопоставляет отказ бизнес-правила со статусом и сообщением.
func acceptErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, matching.ErrRequestNotFound):
		return http.StatusNotFound, "blood request not found"
	case errors.Is(err, matching.ErrExpiredRequest):
		return http.StatusBadRequest, "blood request has expired"
	case errors.Is(err, matching.ErrSelfDonation):
		return http.StatusBadRequest, "self-donation is forbidden"
	case errors.Is(err, matching.ErrAlreadyAccepted):
		return http.StatusBadRequest, "request already accepted"
	case errors.Is(err, matching.ErrRequestFullyCovered):
		return http.StatusBadRequest, "request is already fully covered"
	case errors.Is(err, matching.ErrMissingProfile):
		return http.StatusBadRequest, "donor profile not found"
	case errors.Is(err, matching.ErrBloodGroupMismatch):
		return http.StatusBadRequest, "blood group mismatch"
	case errors.Is(err, matching.ErrDonorUnavailable):
		return http.StatusBadRequest, "donor is currently unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

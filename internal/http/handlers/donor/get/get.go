// Package get реализует HTTP-обработчик чтения анкеты донора текущего пользователя.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/response"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения анкеты донора.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.DonorProfile, error)
}

// Handler обрабатывает запросы на получение собственной анкеты донора.
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
// @Summary Получить свою анкету донора
// @Description Возвращает анкету донора текущего пользователя
// @Tags Donors
// @Produce  json
// @Success 200 {object} response.Response "Анкета донора"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Анкета не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /donors/me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read donor profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if profile == nil {
		log.Info("donor profile not found", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("donor profile not found"))
		return
	}

	log.Info("donor profile read", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile": profile,
	}))
}

// Package show реализует HTTP-обработчик личного кабинета пользователя.
//
// Кабинет собирает профиль, анкету донора, активные и исторические
// корзины заявок и сводную статистику за один запрос.
package show

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

// Service описывает интерфейс бизнес-логики личного кабинета.
type Service interface {
	Show(ctx context.Context, userUID string) (*models.Dashboard, error)
}

// Handler обрабатывает запросы на получение личного кабинета.
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
// @Summary Личный кабинет
// @Description Возвращает профиль, анкету донора, корзины заявок и сводную статистику
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response "Данные кабинета"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.show"

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

	dashboard, err := h.service.Show(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to build dashboard"))
		return
	}

	log.Info("dashboard built", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"dashboard": dashboard,
	}))
}

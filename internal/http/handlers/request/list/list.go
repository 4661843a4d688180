// Package list реализует HTTP-обработчик ленты чужих заявок на кровь.
//
// Собственные заявки пользователя из выдачи исключаются: донором своей
// заявки стать нельзя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/response"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики ленты заявок.
type Service interface {
	List(ctx context.Context, userUID string, filter models.RequestFilter, limit, offset int) ([]*models.BloodRequest, error)
}

// Handler обрабатывает запросы на получение ленты заявок.
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
// @Summary Лента заявок на кровь
// @Description Возвращает чужие заявки с фильтрами по группе крови и больнице
// @Tags Requests
// @Produce  json
// @Param blood_group query string false "Группа крови"
// @Param hospital query string false "Подстрока названия больницы"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /requests/list [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.request.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var filter models.RequestFilter
	if bloodGroup := r.URL.Query().Get("blood_group"); bloodGroup != "" {
		filter.BloodGroup = &bloodGroup
	}
	if hospital := r.URL.Query().Get("hospital"); hospital != "" {
		filter.Hospital = &hospital
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), userUID, filter, limit, offset)
	if err != nil {
		log.Error("failed to list blood requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list blood requests"))
		return
	}

	log.Info("list blood requests", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"entries":    res,
	}))
}

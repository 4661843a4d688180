// Package list реализует HTTP-обработчик списка доноров с фильтрами.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/response"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка доноров.
type Service interface {
	List(ctx context.Context, filter models.DonorFilter, limit, offset int) ([]*models.DonorProfile, error)
}

// Handler обрабатывает запросы на получение списка доноров.
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
// @Summary Список доноров
// @Description Возвращает список доноров с фильтрами по группе крови и доступности
// @Tags Donors
// @Produce  json
// @Param blood_group query string false "Группа крови"
// @Param is_available query boolean false "Только доступные доноры"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список доноров"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /donors/list [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.list"

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

	var filter models.DonorFilter
	if bloodGroup := r.URL.Query().Get("blood_group"); bloodGroup != "" {
		filter.BloodGroup = &bloodGroup
	}
	if availableStr := r.URL.Query().Get("is_available"); availableStr != "" {
		available, err := strconv.ParseBool(availableStr)
		if err != nil {
			log.Error("failed to parse is_available", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid is_available value"))
			return
		}
		filter.IsAvailable = &available
	}

	donors, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		log.Error("failed to list donors", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list donors"))
		return
	}

	log.Info("list donors", slog.Int("count", len(donors)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(donors),
		"donors":     donors,
	}))
}

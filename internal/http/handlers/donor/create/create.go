// Package create реализует HTTP-обработчик создания анкеты донора.
//
// Анкета создаётся один раз на пользователя; повторная попытка завершается
// ошибкой конфликта.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/response"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
	"github.com/magabrotheeeer/blood-donation-backend/internal/matching"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики создания анкеты донора.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyDonorProfile) (int, error)
}

// Handler обрабатывает запросы на создание анкеты донора.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать анкету донора
// @Description Создает анкету донора для текущего пользователя
// @Tags Donors
// @Accept  json
// @Produce  json
// @Param request body models.DummyDonorProfile true "Данные анкеты донора"
// @Success 200 {object} response.Response "Анкета создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Анкета уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /donors [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.donor.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDonorProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, matching.ErrDuplicateProfile) {
			log.Error("donor profile already exists", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("donor profile already exists"))
			return
		}
		log.Error("failed to create donor profile", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to create donor profile"))
		return
	}

	log.Info("created donor profile", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}

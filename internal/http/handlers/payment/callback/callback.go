// Package callback реализует HTTP-обработчик обратных вызовов платёжного шлюза.
//
// Шлюз отправляет форму на success/fail/cancel URL после завершения оплаты.
// Обработчик фиксирует терминальный статус транзакции ровно один раз и
// перенаправляет пользователя на фронтенд. Ответ всегда редирект: шлюз
// подставляет его в браузер плательщика.
package callback

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики завершения платежа.
type Service interface {
	Complete(ctx context.Context, tranID, status string) (string, error)
}

// Handler обрабатывает обратный вызов шлюза для одного исхода платежа.
// Для success/fail/cancel регистрируются три экземпляра с разным статусом.
type Handler struct {
	log     *slog.Logger
	service Service
	status  string
}

// New создает новый экземпляр Handler для заданного терминального статуса.
func New(log *slog.Logger, service Service, status string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		status:  status,
	}
}

// ServeHTTP godoc
// @Summary Обратный вызов платёжного шлюза
// @Description Фиксирует статус транзакции и перенаправляет плательщика на фронтенд
// @Tags Payments
// @Accept  x-www-form-urlencoded
// @Param tran_id formData string true "Идентификатор транзакции"
// @Success 303 "Редирект на фронтенд"
// @Router /payment/success [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.callback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("status", h.status),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse callback form", sl.Err(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	tranID := r.FormValue("tran_id")
	if tranID == "" {
		tranID = r.URL.Query().Get("tran_id")
	}

	redirect, err := h.service.Complete(r.Context(), tranID, h.status)
	if err != nil {
		log.Error("failed to complete transaction", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Info("payment callback processed", slog.String("tran_id", tranID))
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// Package blooddonation предоставляет маршруты для основного приложения.
package blooddonation

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/auth/register"
	dashboardshow "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/dashboard/show"
	donorcreate "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/donor/create"
	donorget "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/donor/get"
	donorlist "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/donor/list"
	donorupdate "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/donor/update"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/health"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/payment/callback"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/payment/history"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/payment/initiate"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/accept"
	requestcreate "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/create"
	requestlist "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/list"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/mylist"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/read"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/remove"
	requestupdate "github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/update"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/handlers/request/withdraw"
	"github.com/magabrotheeeer/blood-donation-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blood-donation-backend/internal/models"
	authservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/dashboard"
	donorservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/donor"
	matchingservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/matching"
	paymentservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/payment"
	requestservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/request"
	"github.com/magabrotheeeer/blood-donation-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	donorService *donorservice.DonorService,
	requestService *requestservice.RequestService,
	matchingService *matchingservice.MatchingService,
	dashboardService *dashboardservice.DashboardService,
	paymentService *paymentservice.PaymentService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Обратные вызовы платёжного шлюза (без аутентификации).
		// Шлюз может отправить как POST с формой, так и GET с параметрами.
		successCallback := callback.New(logger, paymentService, models.TransactionSuccess)
		failCallback := callback.New(logger, paymentService, models.TransactionFailed)
		cancelCallback := callback.New(logger, paymentService, models.TransactionFailed)
		r.Post("/payment/success", successCallback.ServeHTTP)
		r.Get("/payment/success", successCallback.ServeHTTP)
		r.Post("/payment/fail", failCallback.ServeHTTP)
		r.Get("/payment/fail", failCallback.ServeHTTP)
		r.Post("/payment/cancel", cancelCallback.ServeHTTP)
		r.Get("/payment/cancel", cancelCallback.ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/donors", donorcreate.New(logger, donorService).ServeHTTP)
			r.Get("/donors/list", donorlist.New(logger, donorService).ServeHTTP)
			r.Get("/donors/me", donorget.New(logger, donorService).ServeHTTP)
			r.Put("/donors", donorupdate.New(logger, donorService).ServeHTTP)

			r.Post("/requests", requestcreate.New(logger, requestService).ServeHTTP)
			r.Get("/requests/list", requestlist.New(logger, requestService).ServeHTTP)
			r.Get("/my-requests/list", mylist.New(logger, requestService).ServeHTTP)
			r.Get("/requests/{id}", read.New(logger, requestService).ServeHTTP)
			r.Put("/requests/{id}", requestupdate.New(logger, requestService).ServeHTTP)
			r.Delete("/requests/{id}", remove.New(logger, requestService).ServeHTTP)
			r.Post("/requests/{id}/accept", accept.New(logger, matchingService).ServeHTTP)
			r.Post("/requests/{id}/withdraw", withdraw.New(logger, matchingService).ServeHTTP)

			r.Get("/dashboard", dashboardshow.New(logger, dashboardService).ServeHTTP)

			r.Post("/payment/initiate", initiate.New(logger, paymentService).ServeHTTP)
			r.Get("/payment/history", history.New(logger, paymentService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

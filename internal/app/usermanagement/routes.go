package usermanagement

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/create"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/getbylogin"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/harddelete"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/listactive"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/olderthan"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/restore"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/softdelete"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/updateinfo"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/updatelogin"
	"github.com/magabrotheeeer/user-management-service/internal/http/handlers/user/updatepassword"
	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/user-management-service/internal/services/auth"
	userservice "github.com/magabrotheeeer/user-management-service/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.UserService, authService *authservice.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/users", create.New(logger, userService).ServeHTTP)
			r.Get("/users/active", listactive.New(logger, userService).ServeHTTP)
			r.Get("/users/older-than/{age}", olderthan.New(logger, userService).ServeHTTP)
			r.Post("/users/me/profile-data", profile.New(logger, userService).ServeHTTP)
			r.Get("/users/{login}", getbylogin.New(logger, userService).ServeHTTP)
			r.Put("/users/{login}/info", updateinfo.New(logger, userService).ServeHTTP)
			r.Put("/users/{login}/password", updatepassword.New(logger, userService).ServeHTTP)
			r.Put("/users/{login}/login", updatelogin.New(logger, userService).ServeHTTP)
			r.Put("/users/{login}/restore", restore.New(logger, userService).ServeHTTP)
			r.Delete("/users/{login}/soft-delete", softdelete.New(logger, userService).ServeHTTP)
			r.Delete("/users/{login}/hard-delete", harddelete.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

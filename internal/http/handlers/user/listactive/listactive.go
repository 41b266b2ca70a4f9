// Package listactive реализует HTTP-обработчик получения списка всех
// активных пользователей в порядке их создания. Операция доступна
// только администраторам.
package listactive

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// Handler управляет HTTP-запросами на получение списка активных пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения активных пользователей.
type Service interface {
	GetAllActiveUsers(ctx context.Context, actorLogin string) ([]models.UserDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список активных пользователей
// @Description Возвращает всех не отозванных пользователей, отсортированных по дате создания. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} response.OKResponse "Список пользователей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/active [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.listactive"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actorLogin, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actorLogin == "" {
		log.Error("login not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	users, err := h.service.GetAllActiveUsers(r.Context(), actorLogin)
	if err != nil {
		log.Error("failed to list active users", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("active users listed", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(users))
}

// Package olderthan реализует HTTP-обработчик получения пользователей
// старше заданного возраста. Операция доступна только администраторам.
package olderthan

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// Handler управляет HTTP-запросами на выборку пользователей по возрасту.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки пользователей по возрасту.
type Service interface {
	GetUsersOlderThan(ctx context.Context, age int, actorLogin string) ([]models.UserDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пользователи старше заданного возраста
// @Description Возвращает пользователей, чей возраст строго больше указанного. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param age path int true "Возраст в годах"
// @Success 200 {object} response.OKResponse "Список пользователей"
// @Failure 400 {object} response.ErrorResponse "Некорректный возраст"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/older-than/{age} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.olderthan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	age, err := strconv.Atoi(chi.URLParam(r, "age"))
	if err != nil || age < 0 {
		log.Error("invalid age parameter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid age parameter"))
		return
	}

	actorLogin, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actorLogin == "" {
		log.Error("login not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	users, err := h.service.GetUsersOlderThan(r.Context(), age, actorLogin)
	if err != nil {
		log.Error("failed to list users older than", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("users listed", slog.Int("age", age), slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(users))
}

// Package softdelete реализует HTTP-обработчик мягкого удаления пользователя:
// запись остаётся в хранилище, но помечается отметкой отзыва.
// Операция доступна только администраторам.
package softdelete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
)

// Handler управляет HTTP-запросами на мягкое удаление пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики мягкого удаления.
type Service interface {
	SoftDeleteUser(ctx context.Context, targetLogin, actorLogin string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мягко удалить пользователя
// @Description Помечает пользователя отозванным, не удаляя запись. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param login path string true "Логин пользователя"
// @Success 200 {object} response.OKResponse "Пользователь отозван"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{login}/soft-delete [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.softdelete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetLogin := chi.URLParam(r, "login")

	actorLogin, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actorLogin == "" {
		log.Error("login not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SoftDeleteUser(r.Context(), targetLogin, actorLogin); err != nil {
		log.Error("failed to soft delete user", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user soft deleted", slog.String("login", targetLogin))
	render.JSON(w, r, response.OK())
}

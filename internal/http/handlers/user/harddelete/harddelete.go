// Package harddelete реализует HTTP-обработчик полного удаления пользователя
// из хранилища. Операция необратима и доступна только администраторам.
package harddelete

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

// Handler управляет HTTP-запросами на полное удаление пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики полного удаления.
type Service interface {
	HardDeleteUser(ctx context.Context, targetLogin, actorLogin string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Полностью удалить пользователя
// @Description Безвозвратно удаляет запись пользователя. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param login path string true "Логин пользователя"
// @Success 200 {object} response.OKResponse "Пользователь удалён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{login}/hard-delete [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.harddelete"
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

	if err := h.service.HardDeleteUser(r.Context(), targetLogin, actorLogin); err != nil {
		log.Error("failed to hard delete user", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user hard deleted", slog.String("login", targetLogin))
	render.JSON(w, r, response.OK())
}

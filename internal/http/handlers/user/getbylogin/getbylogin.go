// Package getbylogin реализует HTTP-обработчик получения пользователя
// по логину. Операция доступна только администраторам.
package getbylogin

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
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// Handler управляет HTTP-запросами на получение пользователя по логину.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения пользователя по логину.
type Service interface {
	GetUserByLogin(ctx context.Context, login, actorLogin string) (*models.UserDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить пользователя по логину
// @Description Возвращает имя, пол, дату рождения и статус активности пользователя. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Produce  json
// @Param login path string true "Логин пользователя"
// @Success 200 {object} response.OKResponse "Пользователь"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{login} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.getbylogin"
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

	user, err := h.service.GetUserByLogin(r.Context(), targetLogin, actorLogin)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user fetched", slog.String("login", targetLogin))
	render.JSON(w, r, response.OKWithData(user))
}

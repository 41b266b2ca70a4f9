// Package updatelogin реализует HTTP-обработчик смены логина пользователя.
// Новый логин должен быть уникален; операция доступна самому активному
// пользователю либо администратору.
package updatelogin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
)

// Request — новый логин пользователя.
type Request struct {
	NewLogin string `json:"new_login" validate:"required,min=4,alphanum"`
}

// Handler управляет HTTP-запросами на смену логина.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены логина.
type Service interface {
	UpdateLogin(ctx context.Context, targetLogin, newLogin, actorLogin string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить логин пользователя
// @Description Меняет логин пользователя на новый уникальный. Доступно самому пользователю или администратору.
// @Tags Users
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param login path string true "Текущий логин пользователя"
// @Param request body Request true "Новый логин"
// @Success 200 {object} response.OKResponse "Обновлённый пользователь"
// @Failure 400 {object} response.ErrorResponse "Занятый логин или нарушение доменных правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{login}/login [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updatelogin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetLogin := chi.URLParam(r, "login")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actorLogin, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actorLogin == "" {
		log.Error("login not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.UpdateLogin(r.Context(), targetLogin, req.NewLogin, actorLogin); err != nil {
		log.Error("failed to update login", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("login updated",
		slog.String("old_login", targetLogin),
		slog.String("new_login", req.NewLogin))
	render.JSON(w, r, response.OK())
}

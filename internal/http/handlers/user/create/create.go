// Package create реализует HTTP-обработчик создания нового пользователя.
//
// Операция доступна только администраторам; логин создающего берётся
// из контекста запроса и передается сервису как актор.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// Request — данные для создания нового пользователя.
type Request struct {
	Login    string     `json:"login" validate:"required,min=4,alphanum"`
	Password string     `json:"password" validate:"required,min=6,alphanum"`
	Name     string     `json:"name" validate:"required"`
	Gender   int        `json:"gender" validate:"oneof=0 1 2"`
	Birthday *time.Time `json:"birthday,omitempty"`
	IsAdmin  bool       `json:"is_admin"`
}

// Handler управляет HTTP-запросами на создание пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания пользователя.
type Service interface {
	CreateUser(ctx context.Context, actorLogin string, data models.CreateUserData) (*models.UserDTO, error)
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
// @Summary Создать нового пользователя
// @Description Создает нового пользователя. Доступно только администраторам.
// @Tags Users
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} response.OKResponse "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или занятый логин"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, err := h.service.CreateUser(r.Context(), actorLogin, models.CreateUserData{
		Login:    req.Login,
		Password: req.Password,
		Name:     req.Name,
		Gender:   models.Gender(req.Gender),
		Birthday: req.Birthday,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user created", slog.String("login", user.Login))
	render.JSON(w, r, response.OKWithData(user))
}

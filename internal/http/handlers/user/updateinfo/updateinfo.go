// Package updateinfo реализует HTTP-обработчик обновления имени, пола
// и даты рождения пользователя. Операция доступна самому активному
// пользователю либо администратору.
package updateinfo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-management-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-management-service/internal/http/response"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// Request — новые персональные данные пользователя.
type Request struct {
	Name     string     `json:"name" validate:"required"`
	Gender   int        `json:"gender" validate:"oneof=0 1 2"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

// Handler управляет HTTP-запросами на обновление персональных данных.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления персональных данных.
type Service interface {
	UpdateUserInfo(ctx context.Context, targetLogin string, data models.UpdateInfoData, actorLogin string) error
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
// @Summary Обновить имя, пол и дату рождения
// @Description Обновляет персональные данные пользователя. Доступно самому пользователю или администратору.
// @Tags Users
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param login path string true "Логин пользователя"
// @Param request body Request true "Новые персональные данные"
// @Success 200 {object} response.OKResponse "Обновлённый пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение доменных правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{login}/info [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updateinfo"
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

	err := h.service.UpdateUserInfo(r.Context(), targetLogin, models.UpdateInfoData{
		Name:     req.Name,
		Gender:   models.Gender(req.Gender),
		Birthday: req.Birthday,
	}, actorLogin)
	if err != nil {
		log.Error("failed to update user info", sl.Err(err))
		status, resp := response.FromError(err)
		w.WriteHeader(status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user info updated", slog.String("login", targetLogin))
	render.JSON(w, r, response.OK())
}

// Package services содержит бизнес-логику управления пользователями:
// авторизационные политики и координацию изменений агрегата с хранилищем.
//
// Политик две. "Сам или администратор": операцию над пользователем может
// выполнять администратор либо сам пользователь, пока он активен.
// "Только администратор": операция доступна исключительно администраторам.
// Проверки ролей выполняются явно здесь, а не в маршрутизаторе, чтобы
// бизнес-правила можно было тестировать без HTTP-слоя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/user-management-service/internal/events"
	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/lib/password"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// GetUserByLogin возвращает пользователя по логину или apperr.ErrNotFound.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// GetUserByID возвращает пользователя по идентификатору или apperr.ErrNotFound.
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
	// GetUserByLoginAndPassword возвращает пользователя, если логин существует
	// и пароль совпадает; иначе apperr.ErrNotFound.
	GetUserByLoginAndPassword(ctx context.Context, login, rawPassword string) (*models.User, error)
	// ListActiveUsers возвращает активных пользователей по дате создания.
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	// ListUsersOlderThan возвращает активных пользователей старше age лет.
	ListUsersOlderThan(ctx context.Context, age int) ([]*models.User, error)
	// IsLoginUnique сообщает, свободен ли логин.
	IsLoginUnique(ctx context.Context, login string) (bool, error)
	// AddUser сохраняет нового пользователя.
	AddUser(ctx context.Context, u *models.User) error
	// UpdateUser сохраняет изменённого пользователя.
	UpdateUser(ctx context.Context, u *models.User) error
	// DeleteUser безвозвратно удаляет пользователя.
	DeleteUser(ctx context.Context, u *models.User) error
	// SoftDeleteUser помечает пользователя удалённым и сохраняет.
	SoftDeleteUser(ctx context.Context, u *models.User, actor string) error
	// RestoreUser снимает отметку удаления и сохраняет.
	RestoreUser(ctx context.Context, u *models.User, actor string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует события жизненного цикла пользователей.
type EventPublisher interface {
	Publish(event events.UserEvent) error
}

// UserService реализует операции над пользователями с проверкой прав доступа.
//
// Кеш и издатель событий необязательны: при nil соответствующие шаги
// пропускаются. Публикация событий — best effort, её ошибки только логируются.
type UserService struct {
	repo   UserRepository
	cache  Cache
	events EventPublisher
	hasher password.Hasher
	log    *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, cache Cache, eventsPub EventPublisher, hasher password.Hasher, log *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		events: eventsPub,
		hasher: hasher,
		log:    log,
	}
}

func userCacheKey(login string) string {
	return "user:login:" + login
}

// CreateUser создает нового пользователя от имени администратора actorLogin.
// Занятый логин — apperr.ErrValidation.
func (s *UserService) CreateUser(ctx context.Context, actorLogin string, data models.CreateUserData) (*models.UserDTO, error) {
	const op = "services.user.CreateUser"

	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}

	unique, err := s.repo.IsLoginUnique(ctx, data.Login)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, fmt.Errorf("%s: login '%s' is already taken: %w", op, data.Login, apperr.ErrValidation)
	}

	user, err := models.NewUser(s.hasher, data.Login, data.Password, data.Name,
		data.Gender, data.Birthday, data.IsAdmin, actorLogin)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("created new user", slog.String("login", user.Login), slog.String("created_by", actorLogin))

	s.publishEvent(events.TypeUserCreated, user.Login, actorLogin)

	dto := user.ToDTO()
	return &dto, nil
}

// UpdateUserInfo изменяет имя, пол и дату рождения пользователя targetLogin.
// Политика "сам или администратор".
func (s *UserService) UpdateUserInfo(ctx context.Context, targetLogin string, data models.UpdateInfoData, actorLogin string) error {
	_, target, err := s.authorizeUserModification(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := target.UpdateInfo(data.Name, data.Gender, data.Birthday, actorLogin); err != nil {
		return err
	}
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	return nil
}

// UpdatePassword изменяет пароль пользователя targetLogin.
// Политика "сам или администратор".
func (s *UserService) UpdatePassword(ctx context.Context, targetLogin, newPassword, actorLogin string) error {
	_, target, err := s.authorizeUserModification(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := target.ChangePassword(s.hasher, newPassword, actorLogin); err != nil {
		return err
	}
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	return nil
}

// UpdateLogin изменяет логин пользователя targetLogin на newLogin.
// Сначала проверяется уникальность нового логина, затем права доступа.
func (s *UserService) UpdateLogin(ctx context.Context, targetLogin, newLogin, actorLogin string) error {
	const op = "services.user.UpdateLogin"

	unique, err := s.repo.IsLoginUnique(ctx, newLogin)
	if err != nil {
		return err
	}
	if !unique {
		return fmt.Errorf("%s: login '%s' is already taken: %w", op, newLogin, apperr.ErrValidation)
	}

	_, target, err := s.authorizeUserModification(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := target.UpdateLogin(newLogin, actorLogin); err != nil {
		return err
	}
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	s.invalidateCache(newLogin)
	return nil
}

// GetAllActiveUsers возвращает всех активных пользователей.
// Доступно только администраторам.
func (s *UserService) GetAllActiveUsers(ctx context.Context, actorLogin string) ([]models.UserDTO, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}

	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	return mapToDTOs(users), nil
}

// GetUserByLogin возвращает пользователя по логину. Доступно только
// администраторам. Результат кешируется и сбрасывается при любой
// мутации этого пользователя.
func (s *UserService) GetUserByLogin(ctx context.Context, login, actorLogin string) (*models.UserDTO, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}

	cacheKey := userCacheKey(login)
	if s.cache != nil {
		var cached models.UserDTO
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.log.Warn("failed to read user from cache", slog.String("key", cacheKey), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO()

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, dto, time.Hour); err != nil {
			s.log.Warn("failed to cache user", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return &dto, nil
}

// GetUserByLoginAndPassword возвращает данные пользователя по логину и паролю.
// Запрашивать можно только собственные данные; неверный пароль, чужой логин
// или неактивная учетная запись дают одинаковый apperr.ErrUnauthorized.
func (s *UserService) GetUserByLoginAndPassword(ctx context.Context, login, rawPassword, actorLogin string) (*models.UserDTO, error) {
	const op = "services.user.GetUserByLoginAndPassword"

	if actorLogin != login {
		return nil, fmt.Errorf("%s: you can only request your own data: %w", op, apperr.ErrUnauthorized)
	}

	user, err := s.repo.GetUserByLoginAndPassword(ctx, login, rawPassword)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: invalid credentials or inactive user: %w", op, apperr.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%s: invalid credentials or inactive user: %w", op, apperr.ErrUnauthorized)
	}

	dto := user.ToDTO()
	return &dto, nil
}

// GetUsersOlderThan возвращает активных пользователей старше age лет.
// Доступно только администраторам.
func (s *UserService) GetUsersOlderThan(ctx context.Context, age int, actorLogin string) ([]models.UserDTO, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsersOlderThan(ctx, age)
	if err != nil {
		return nil, err
	}
	return mapToDTOs(users), nil
}

// SoftDeleteUser помечает пользователя удалённым. Только администратор.
// Повторное мягкое удаление не запрещено — обновляется отметка времени.
func (s *UserService) SoftDeleteUser(ctx context.Context, targetLogin, actorLogin string) error {
	target, err := s.authorizeAdminAction(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDeleteUser(ctx, target, actorLogin); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	s.publishEvent(events.TypeUserSoftDeleted, targetLogin, actorLogin)
	return nil
}

// HardDeleteUser безвозвратно удаляет пользователя. Только администратор.
func (s *UserService) HardDeleteUser(ctx context.Context, targetLogin, actorLogin string) error {
	target, err := s.authorizeAdminAction(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, target); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	s.publishEvent(events.TypeUserHardDeleted, targetLogin, actorLogin)
	return nil
}

// RestoreUser восстанавливает мягко удалённого пользователя. Только
// администратор. Восстановление активного пользователя — успешный no-op.
func (s *UserService) RestoreUser(ctx context.Context, targetLogin, actorLogin string) error {
	target, err := s.authorizeAdminAction(ctx, actorLogin, targetLogin)
	if err != nil {
		return err
	}

	if err := s.repo.RestoreUser(ctx, target, actorLogin); err != nil {
		return err
	}
	s.invalidateCache(targetLogin)
	s.publishEvent(events.TypeUserRestored, targetLogin, actorLogin)
	return nil
}

// authorizeUserModification разрешает операцию администратору либо самому
// пользователю, если тот активен. Отсутствие актора или цели — apperr.ErrNotFound,
// недостаток прав — apperr.ErrUnauthorized.
func (s *UserService) authorizeUserModification(ctx context.Context, actorLogin, targetLogin string) (*models.User, *models.User, error) {
	const op = "services.user.authorizeUserModification"

	actor, err := s.repo.GetUserByLogin(ctx, actorLogin)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		return nil, nil, err
	}

	canModify := actor.Admin || (actor.Login == target.Login && target.IsActive())
	if !canModify {
		return nil, nil, fmt.Errorf("%s: you do not have permission to modify this user: %w", op, apperr.ErrUnauthorized)
	}
	return actor, target, nil
}

// authorizeAdminAction разрешает операцию только администратору.
// Цель проверяется на существование после проверки прав.
func (s *UserService) authorizeAdminAction(ctx context.Context, actorLogin, targetLogin string) (*models.User, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}

	target, err := s.repo.GetUserByLogin(ctx, targetLogin)
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *UserService) requireAdmin(ctx context.Context, actorLogin string) (*models.User, error) {
	const op = "services.user.requireAdmin"

	actor, err := s.repo.GetUserByLogin(ctx, actorLogin)
	if err != nil {
		return nil, err
	}
	if !actor.Admin {
		return nil, fmt.Errorf("%s: this action can only be performed by an administrator: %w", op, apperr.ErrUnauthorized)
	}
	return actor, nil
}

func (s *UserService) invalidateCache(login string) {
	if s.cache == nil {
		return
	}
	key := userCacheKey(login)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *UserService) publishEvent(eventType, login, actor string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(events.NewUserEvent(eventType, login, actor)); err != nil {
		s.log.Warn("failed to publish user event",
			slog.String("type", eventType), slog.String("login", login), sl.Err(err))
	}
}

func mapToDTOs(users []*models.User) []models.UserDTO {
	result := make([]models.UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, u.ToDTO())
	}
	return result
}

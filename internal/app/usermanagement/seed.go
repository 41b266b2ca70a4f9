package usermanagement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/lib/password"
	"github.com/magabrotheeeer/user-management-service/internal/lib/sl"
	"github.com/magabrotheeeer/user-management-service/internal/models"
	"github.com/magabrotheeeer/user-management-service/internal/storage/repository"
)

// Учетные данные администратора по умолчанию. Создается при первом старте,
// если пользователь admin еще не существует.
const (
	seedAdminLogin    = "admin"
	seedAdminPassword = "password"
	seedAdminName     = "administrator"
	seedCreatedBy     = "System"
)

// seedAdminUser создает администратора по умолчанию, если его еще нет.
// Любая ошибка здесь только логируется: сервис должен стартовать и без
// посевного администратора. Гонку двух экземпляров разрешает уникальный
// индекс по логину в базе.
func seedAdminUser(ctx context.Context, db *repository.Storage, hasher password.Hasher, logger *slog.Logger) {
	_, err := db.GetUserByLogin(ctx, seedAdminLogin)
	if err == nil {
		return
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		logger.Warn("failed to check default admin user", sl.Err(err))
		return
	}

	admin, err := models.NewUser(hasher, seedAdminLogin, seedAdminPassword, seedAdminName,
		models.GenderUnknown, nil, true, seedCreatedBy)
	if err != nil {
		logger.Warn("failed to build default admin user", sl.Err(err))
		return
	}
	if err := db.AddUser(ctx, admin); err != nil {
		logger.Warn("failed to seed default admin user", sl.Err(err))
		return
	}
	logger.Info("seeded default admin user", slog.String("login", seedAdminLogin))
}

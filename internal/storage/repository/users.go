package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/models"
)

// pgUniqueViolation — код ошибки PostgreSQL для нарушения уникального индекса.
// Уникальный индекс по логину — окончательная защита от гонки
// "проверил-вставил": предварительная проверка IsLoginUnique даёт лишь
// более дружелюбное сообщение об ошибке.
const pgUniqueViolation = "23505"

const userColumns = `uid, login, password_hash, name, gender, is_admin, birthday,
			      created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var birthday, modifiedOn, revokedOn sql.NullTime
	var modifiedBy, revokedBy sql.NullString

	if err := row.Scan(&u.UUID, &u.Login, &u.PasswordHash, &u.Name, &u.Gender,
		&u.Admin, &birthday, &u.CreatedOn, &u.CreatedBy,
		&modifiedOn, &modifiedBy, &revokedOn, &revokedBy); err != nil {
		return nil, err
	}

	if birthday.Valid {
		u.Birthday = &birthday.Time
	}
	if modifiedOn.Valid {
		u.ModifiedOn = &modifiedOn.Time
	}
	if modifiedBy.Valid {
		u.ModifiedBy = &modifiedBy.String
	}
	if revokedOn.Valid {
		u.RevokedOn = &revokedOn.Time
	}
	if revokedBy.Valid {
		u.RevokedBy = &revokedBy.String
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// GetUserByLogin возвращает пользователя по логину.
// Отсутствие пользователя оборачивается в apperr.ErrNotFound.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE login = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, login))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его UID.
func (s *Storage) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByLoginAndPassword ищет пользователя по логину и проверяет пароль.
// Неверный пароль неотличим от отсутствия пользователя — в обоих случаях
// возвращается apperr.ErrNotFound.
func (s *Storage) GetUserByLoginAndPassword(ctx context.Context, login, rawPassword string) (*models.User, error) {
	const op = "storage.GetUserByLoginAndPassword"

	u, err := s.GetUserByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !u.VerifyPassword(s.hasher, rawPassword) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return u, nil
}

// ListActiveUsers возвращает всех активных пользователей,
// отсортированных по дате создания.
func (s *Storage) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListActiveUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE revoked_on IS NULL
			  ORDER BY created_on ASC`
	return s.queryUsers(ctx, op, query)
}

// ListUsersOlderThan возвращает активных пользователей старше заданного
// возраста, отсортированных по дате создания. Пользователи без даты
// рождения в выборку не попадают.
func (s *Storage) ListUsersOlderThan(ctx context.Context, age int) ([]*models.User, error) {
	const op = "storage.ListUsersOlderThan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cutoff := time.Now().UTC().AddDate(-age, 0, 0)
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE revoked_on IS NULL AND birthday IS NOT NULL AND birthday <= $1
			  ORDER BY created_on ASC`
	return s.queryUsers(ctx, op, query, cutoff)
}

func (s *Storage) queryUsers(ctx context.Context, op, query string, args ...any) ([]*models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IsLoginUnique проверяет, свободен ли логин среди всех пользователей,
// включая мягко удалённых.
func (s *Storage) IsLoginUnique(ctx context.Context, login string) (bool, error) {
	const op = "storage.IsLoginUnique"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`
	if err := s.DB.QueryRowContext(ctx, query, login).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return !exists, nil
}

// AddUser сохраняет нового пользователя. Нарушение уникальности логина
// оборачивается в apperr.ErrValidation.
func (s *Storage) AddUser(ctx context.Context, u *models.User) error {
	const op = "storage.AddUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, login, password_hash, name, gender, is_admin, birthday,
			      created_on, created_by, modified_on, modified_by, revoked_on, revoked_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.DB.ExecContext(ctx, query,
		u.UUID, u.Login, u.PasswordHash, u.Name, u.Gender, u.Admin, u.Birthday,
		u.CreatedOn, u.CreatedBy, u.ModifiedOn, u.ModifiedBy, u.RevokedOn, u.RevokedBy)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: login '%s' is already taken: %w", op, u.Login, apperr.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUser полностью заменяет изменяемые поля пользователя по его UID.
func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET login = $1, password_hash = $2, name = $3, gender = $4, birthday = $5,
			      is_admin = $6, modified_on = $7, modified_by = $8, revoked_on = $9, revoked_by = $10
			  WHERE uid = $11`
	res, err := s.DB.ExecContext(ctx, query,
		u.Login, u.PasswordHash, u.Name, u.Gender, u.Birthday,
		u.Admin, u.ModifiedOn, u.ModifiedBy, u.RevokedOn, u.RevokedBy, u.UUID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: login '%s' is already taken: %w", op, u.Login, apperr.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// DeleteUser безвозвратно удаляет запись пользователя.
func (s *Storage) DeleteUser(ctx context.Context, u *models.User) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, u.UUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// SoftDeleteUser помечает пользователя удалённым от имени actor и сохраняет изменение.
func (s *Storage) SoftDeleteUser(ctx context.Context, u *models.User, actor string) error {
	const op = "storage.SoftDeleteUser"
	u.SoftDelete(actor)
	if err := s.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RestoreUser снимает отметку удаления и сохраняет изменение.
func (s *Storage) RestoreUser(ctx context.Context, u *models.User, _ string) error {
	const op = "storage.RestoreUser"
	u.Restore()
	if err := s.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

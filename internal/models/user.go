// Package models содержит доменную модель пользователя системы.
//
// User — агрегат учётной записи: хранит состояние, проверяет доменные
// инварианты полей и выполняет переходы состояния (изменение данных,
// смена пароля и логина, мягкое удаление и восстановление). Пароль
// хранится только в виде одностороннего хэша.
package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/user-management-service/internal/lib/apperr"
	"github.com/magabrotheeeer/user-management-service/internal/lib/password"
)

// Gender обозначает пол пользователя.
type Gender int

// Допустимые значения пола.
const (
	GenderFemale  Gender = 0 // женщина
	GenderMale    Gender = 1 // мужчина
	GenderUnknown Gender = 2 // неизвестно
)

var (
	latinLettersAndDigits  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	latinAndRussianLetters = regexp.MustCompile(`^[a-zA-Zа-яА-Я]+$`)
)

// User представляет учётную запись пользователя.
//
// Поля экспортированы для восстановления из хранилища: слой storage
// сканирует строки базы напрямую в структуру, не прогоняя валидацию
// заново. Валидация выполняется только в конструкторе NewUser и в
// методах-мутаторах.
type User struct {
	UUID         string     // Уникальный идентификатор пользователя
	Login        string     // Уникальный логин (только латинские буквы и цифры)
	PasswordHash string     // Хэш пароля, исходный пароль не хранится
	Name         string     // Имя (только латинские и русские буквы)
	Gender       Gender     // Пол пользователя
	Birthday     *time.Time // Дата рождения (опционально)
	Admin        bool       // Является ли пользователь администратором
	CreatedOn    time.Time  // Дата создания пользователя
	CreatedBy    string     // Логин пользователя, от имени которого создана запись
	ModifiedOn   *time.Time // Дата последнего изменения
	ModifiedBy   *string    // Логин пользователя, выполнившего изменение
	RevokedOn    *time.Time // Дата мягкого удаления
	RevokedBy    *string    // Логин пользователя, выполнившего удаление
}

// NewUser создает нового пользователя: проверяет логин, пароль и имя,
// хэширует пароль, назначает новый идентификатор и заполняет метаданные
// создания. Побочных эффектов (сеть, хранилище) не имеет.
func NewUser(h password.Hasher, login, rawPassword, name string, gender Gender, birthday *time.Time, admin bool, createdBy string) (*User, error) {
	if err := validateLogin(login); err != nil {
		return nil, err
	}
	if err := validatePassword(rawPassword); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	hash, err := h.Hash(rawPassword)
	if err != nil {
		return nil, err
	}
	return &User{
		UUID:         uuid.New().String(),
		Login:        login,
		PasswordHash: hash,
		Name:         name,
		Gender:       gender,
		Birthday:     birthday,
		Admin:        admin,
		CreatedOn:    time.Now().UTC(),
		CreatedBy:    createdBy,
	}, nil
}

// IsActive сообщает, активен ли пользователь: активен тот, у кого
// отсутствует дата мягкого удаления.
func (u *User) IsActive() bool {
	return u.RevokedOn == nil
}

// UpdateInfo изменяет имя, пол и дату рождения пользователя,
// проставляя метаданные изменения от имени actor.
func (u *User) UpdateInfo(newName string, newGender Gender, newBirthday *time.Time, actor string) error {
	if err := validateName(newName); err != nil {
		return err
	}
	u.Name = newName
	u.Gender = newGender
	u.Birthday = newBirthday
	u.stampModified(actor)
	return nil
}

// ChangePassword проверяет и перехэширует новый пароль,
// проставляя метаданные изменения от имени actor.
func (u *User) ChangePassword(h password.Hasher, newPassword, actor string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := h.Hash(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.stampModified(actor)
	return nil
}

// UpdateLogin изменяет логин пользователя. Уникальность нового логина
// проверяет вызывающая сторона до вызова, здесь проверяется только формат.
func (u *User) UpdateLogin(newLogin, actor string) error {
	if err := validateLogin(newLogin); err != nil {
		return err
	}
	u.Login = newLogin
	u.stampModified(actor)
	return nil
}

// SoftDelete помечает пользователя удалённым: проставляет дату удаления
// и логин удалившего. Повторный вызов просто обновляет отметку времени.
func (u *User) SoftDelete(actor string) {
	now := time.Now().UTC()
	u.RevokedOn = &now
	u.RevokedBy = &actor
}

// Restore снимает отметку мягкого удаления. Для активного пользователя
// вызов ничего не меняет и ошибкой не является.
func (u *User) Restore() {
	u.RevokedOn = nil
	u.RevokedBy = nil
}

// VerifyPassword сообщает, совпадает ли пароль с сохранённым хэшем.
// Неверный пароль — это false, а не ошибка.
func (u *User) VerifyPassword(h password.Hasher, raw string) bool {
	return h.Verify(raw, u.PasswordHash)
}

func (u *User) stampModified(actor string) {
	now := time.Now().UTC()
	u.ModifiedOn = &now
	u.ModifiedBy = &actor
}

func validateLogin(login string) error {
	if len(login) < 4 {
		return fmt.Errorf("%w: the login is too short, it must be at least 4 characters long", apperr.ErrDomainValidation)
	}
	if !latinLettersAndDigits.MatchString(login) {
		return fmt.Errorf("%w: the login contains invalid characters", apperr.ErrDomainValidation)
	}
	return nil
}

func validatePassword(rawPassword string) error {
	if len(rawPassword) < 6 {
		return fmt.Errorf("%w: the password is too short, it must be at least 6 characters long", apperr.ErrDomainValidation)
	}
	if !latinLettersAndDigits.MatchString(rawPassword) {
		return fmt.Errorf("%w: the password contains invalid characters", apperr.ErrDomainValidation)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: the name is empty", apperr.ErrDomainValidation)
	}
	if !latinAndRussianLetters.MatchString(name) {
		return fmt.Errorf("%w: the name contains invalid characters, only latin and russian letters are allowed", apperr.ErrDomainValidation)
	}
	return nil
}

package models

import "time"

// UserDTO — внешнее представление пользователя, отдаваемое наружу.
// Хэш пароля и служебные метаданные изменений в него не входят.
type UserDTO struct {
	UUID      string     `json:"uuid"`
	Login     string     `json:"login"`
	Name      string     `json:"name"`
	Gender    Gender     `json:"gender"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
	IsActive  bool       `json:"is_active"`
	CreatedOn time.Time  `json:"created_on"`
}

// ToDTO формирует внешнее представление пользователя.
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		UUID:      u.UUID,
		Login:     u.Login,
		Name:      u.Name,
		Gender:    u.Gender,
		Birthday:  u.Birthday,
		IsAdmin:   u.Admin,
		IsActive:  u.IsActive(),
		CreatedOn: u.CreatedOn,
	}
}

// CreateUserData — данные для создания нового пользователя.
type CreateUserData struct {
	Login    string
	Password string
	Name     string
	Gender   Gender
	Birthday *time.Time
	IsAdmin  bool
}

// UpdateInfoData — данные для изменения имени, пола и даты рождения.
type UpdateInfoData struct {
	Name     string
	Gender   Gender
	Birthday *time.Time
}

// Package apperr содержит классифицированные ошибки приложения.
//
// Сервисный и доменный слои оборачивают эти значения через %w, а HTTP-слой
// переводит их в статусы ответов: ErrNotFound — 404, ErrValidation и
// ErrDomainValidation — 400, ErrUnauthorized — 403. Всё остальное наружу
// отдается как 500 без деталей.
package apperr

import "errors"

var (
	// ErrNotFound — запрошенный пользователь не существует.
	ErrNotFound = errors.New("not found")
	// ErrValidation — нарушение правил уровня приложения,
	// например занятый логин.
	ErrValidation = errors.New("validation failed")
	// ErrDomainValidation — нарушение доменных инвариантов полей
	// пользователя (формат логина, пароля, имени).
	ErrDomainValidation = errors.New("domain validation failed")
	// ErrUnauthorized — у актора недостаточно прав на операцию.
	ErrUnauthorized = errors.New("unauthorized")
)

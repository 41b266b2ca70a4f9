// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Hasher описывает абстракцию одностороннего хеширования, чтобы доменный слой
// не зависел от конкретного алгоритма. BcryptHasher — рабочая реализация на bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher описывает одностороннее хеширование пароля и проверку соответствия.
type Hasher interface {
	// Hash возвращает хэш пароля для безопасного хранения.
	Hash(raw string) (string, error)
	// Verify сообщает, соответствует ли пароль сохранённому хэшу.
	Verify(raw, hash string) bool
}

// BcryptHasher реализует Hasher на основе bcrypt со стандартной стоимостью.
type BcryptHasher struct{}

// Hash принимает пароль пользователя и возвращает его bcrypt-хэш.
func (BcryptHasher) Hash(raw string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сравнивает bcrypt-хэш с введённым паролем.
//
// Возвращает false при несоответствии, ошибок наружу не отдаёт.
func (BcryptHasher) Verify(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

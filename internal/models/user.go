// Package models содержит доменные структуры фитнес-клуба: пользователей,
// занятия, брони и абонементы. Статусы и роли заданы закрытыми типами,
// чтобы недопустимые значения не проходили дальше границы запроса.
package models

import "time"

// Role роль пользователя в системе.
type Role string

const (
	// RoleAdmin — администратор клуба
	RoleAdmin Role = "admin"
	// RoleInstructor — тренер, ведущий занятия
	RoleInstructor Role = "instructor"
	// RoleClient — клиент клуба
	RoleClient Role = "client"
)

// Valid проверяет, что роль входит в список допустимых.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleClient:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя клуба.
// Удаление всегда мягкое: вместо удаления строки сбрасывается IsActive.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Имя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля
	Role         Role      // Роль: admin, instructor или client
	Phone        string    // Контактный телефон
	IsActive     bool      // Признак активной учётной записи
	CreatedAt    time.Time // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty" validate:"omitempty"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenInfo содержит данные пользователя, извлечённые из проверенного JWT.
type TokenInfo struct {
	Username string
	Role     string
	UserUID  string
}

// LoginResult возвращается сервисом авторизации после успешного входа.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

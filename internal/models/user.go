package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя.
//
// Guard читает флаги Admin и Blocked при авторизации запроса и никогда
// их не изменяет; управление флагами — зона ответственности админских
// операций вне этого сервиса.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Admin        bool
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Info возвращает публичное представление пользователя без хэша пароля.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Admin:    u.Admin,
	}
}

// UserInfo — безопасное для выдачи наружу представление пользователя.
type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Admin    bool      `json:"admin"`
}

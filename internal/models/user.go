// Package models содержит доменные структуры портала:
// пользователей (user/admin) и задания (assignments).
package models

import "time"

// Роли пользователей. Роль назначается сервером в зависимости от
// эндпоинта регистрации и никогда не берётся из тела запроса.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя или администратора.
type User struct {
	UID          string    // Уникальный идентификатор (генерируется базой)
	Username     string    // Имя пользователя, 3-50 символов
	Email        string    // Электронная почта
	PasswordHash string    // bcrypt-хэш пароля, открытый пароль не хранится
	Role         string    // user или admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminInfo — урезанное представление администратора для каталога
// администраторов: наружу отдаются только username и email.
type AdminInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

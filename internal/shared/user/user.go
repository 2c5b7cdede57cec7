package user

import "time"

// Роли и статусы пользователей
const (
	RoleTraveler = "TRAVELER"
	RoleAdmin    = "ADMIN"

	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// User — модель пользователя, достаточная для аутентификации и владения journeys
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string // TRAVELER | ADMIN
	Status       string // ACTIVE | INACTIVE
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive проверяет, активен ли пользователь
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

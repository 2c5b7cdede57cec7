package user

import (
	"context"
	"errors"
)

var (
	// ErrUserExists пользователь с таким email уже существует
	ErrUserExists = errors.New("user with this email already exists")

	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")
)

// Repository — доступ к пользователям
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

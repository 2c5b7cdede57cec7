package domain

import "errors"

var (
	// ErrJourneyNotFound journey не существует
	ErrJourneyNotFound = errors.New("journey not found")

	// ErrNotOwner вызывающий не владеет journey
	ErrNotOwner = errors.New("caller is not the journey owner")

	// ErrNoCurrentPosition journey содержит только plan-маркеры,
	// текущей позиции нет
	ErrNoCurrentPosition = errors.New("journey has no current position")
)

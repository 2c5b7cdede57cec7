package domain

import "errors"

var (
	// ErrInvalidCoordinate долгота/широта вне допустимых границ
	ErrInvalidCoordinate = errors.New("coordinate out of bounds")

	// ErrNotOwner операция разрешена только владельцу journey
	ErrNotOwner = errors.New("caller is not the journey owner")

	// ErrSequenceConflict гонка конкурентных мутаций одной последовательности;
	// вызывающий перечитывает состояние и повторяет
	ErrSequenceConflict = errors.New("sequence index already occupied")

	// ErrNoPendingPlanMarker после текущей позиции не осталось plan-маркеров
	ErrNoPendingPlanMarker = errors.New("no pending plan marker")

	// ErrJourneyNotFound journey не найден
	ErrJourneyNotFound = errors.New("journey not found")

	// ErrMarkerNotFound маркер не найден
	ErrMarkerNotFound = errors.New("marker not found")
)

package out

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// JourneyRepository — хранилище journeys
type JourneyRepository interface {
	Create(ctx context.Context, j *domain.Journey) error

	// GetByID возвращает domain.ErrJourneyNotFound, если journey не существует
	GetByID(ctx context.Context, id string) (*domain.Journey, error)

	ListByOwner(ctx context.Context, ownerID string) ([]domain.Journey, error)

	SetActive(ctx context.Context, id string, active bool) error

	// DeactivateByOwner снимает флаг active со всех journeys владельца
	// (у пользователя не больше одного активного journey)
	DeactivateByOwner(ctx context.Context, ownerID string) error

	// SetCompleted помечает journey завершенным и снимает active
	SetCompleted(ctx context.Context, id string) error

	// Delete удаляет journey; маркеры и позиция в индексе удаляются каскадом
	Delete(ctx context.Context, id string) error
}

package in

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// GetJourneyUseCase возвращает journey по ID
type GetJourneyUseCase interface {
	Execute(ctx context.Context, callerID, journeyID string) (*domain.Journey, error)
}

// ListJourneysUseCase возвращает все journeys владельца
type ListJourneysUseCase interface {
	Execute(ctx context.Context, ownerID string) ([]domain.Journey, error)
}

// SetActiveJourneyUseCase делает journey активным; прежний активный
// journey владельца деактивируется (не больше одного активного)
type SetActiveJourneyUseCase interface {
	Execute(ctx context.Context, callerID, journeyID string) error
}

// CompleteJourneyUseCase помечает journey завершенным (и неактивным)
type CompleteJourneyUseCase interface {
	Execute(ctx context.Context, callerID, journeyID string) error
}

// DeleteJourneyUseCase удаляет journey с каскадом маркеров
// и записи в геоиндексе. Необратимая операция.
type DeleteJourneyUseCase interface {
	Execute(ctx context.Context, callerID, journeyID string) error
}

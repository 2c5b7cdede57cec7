package in

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// GetMarkersUseCase возвращает полную упорядоченную последовательность маркеров
type GetMarkersUseCase interface {
	Execute(ctx context.Context, callerID, journeyID string) ([]domain.Marker, error)
}

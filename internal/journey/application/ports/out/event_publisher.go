package out

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// EventPublisher — публикация доменных событий.
// Ошибки публикации логируются, но не проваливают запись.
type EventPublisher interface {
	PublishJourneyCreated(ctx context.Context, j *domain.Journey) error
	PublishJourneyDeleted(ctx context.Context, journeyID, ownerID string) error
	PublishMarkerAppended(ctx context.Context, ownerID string, m *domain.Marker) error
	PublishMarkerConverted(ctx context.Context, ownerID string, m *domain.Marker) error

	// PublishPositionChanged публикуется при каждом изменении текущей позиции
	PublishPositionChanged(ctx context.Context, journeyID, ownerID string, longitude, latitude float64) error
}

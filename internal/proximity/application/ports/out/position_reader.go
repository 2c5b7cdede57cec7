package out

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
)

// PositionReader — read-only доступ к геоиндексу текущих позиций
type PositionReader interface {
	// Origin возвращает владельца journey и его текущую позицию.
	// Position == nil, если записи в геоиндексе нет (plan-only journey).
	// domain.ErrJourneyNotFound, если journey не существует.
	Origin(ctx context.Context, journeyID string) (*domain.Origin, error)

	// Near возвращает journeys в радиусе radiusMeters от точки,
	// исключая excludeJourneyID, отсортированные по расстоянию
	// (tie-break по journey_id), не больше limit
	Near(ctx context.Context, origin domain.Position, radiusMeters float64, limit int, excludeJourneyID string) ([]domain.Neighbor, error)
}

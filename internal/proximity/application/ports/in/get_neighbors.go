package in

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
)

// GetNeighborsInput — входные данные neighbor-запроса.
// RadiusMeters <= 0 и Limit <= 0 означают "использовать default";
// значения выше политики сервиса усекаются до cap.
type GetNeighborsInput struct {
	CallerID     string
	JourneyID    string
	RadiusMeters float64
	Limit        int
}

// GetNeighborsOutput — результат: origin и соседи
type GetNeighborsOutput struct {
	JourneyID    string            `json:"journey_id"`
	Origin       domain.Position   `json:"origin"`
	RadiusMeters float64           `json:"radius_meters"`
	Neighbors    []domain.Neighbor `json:"neighbors"`
}

// GetNeighborsUseCase возвращает journeys, чья текущая позиция лежит в
// радиусе от текущей позиции указанного journey. Сам journey исключен.
// Для plan-only journey — domain.ErrNoCurrentPosition.
type GetNeighborsUseCase interface {
	Execute(ctx context.Context, input GetNeighborsInput) (*GetNeighborsOutput, error)
}

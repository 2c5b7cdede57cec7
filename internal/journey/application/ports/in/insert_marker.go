package in

import "context"

// InsertJourneyMarkerUseCase вставляет journey-маркер непосредственно перед
// первым оставшимся plan-маркером (сразу после текущей позиции), сдвигая
// последующие индексы. Моделирует движение по заранее спланированному маршруту.
// Если plan-маркеров не осталось — domain.ErrNoPendingPlanMarker
// (в этом случае используйте обычный append).
type InsertJourneyMarkerUseCase interface {
	Execute(ctx context.Context, input AppendMarkerInput) (*MarkerOutput, error)
}

package in

import (
	"context"
	"time"
)

// ConvertNextPlanInput — входные данные для подтверждения waypoint
type ConvertNextPlanInput struct {
	CallerID   string     `json:"-"`
	JourneyID  string     `json:"-"`
	HappenedAt *time.Time `json:"happened_at,omitempty"`
}

// ConvertNextPlanUseCase конвертирует plan-маркер, следующий за текущей
// позицией, в journey-маркер на месте (SequenceIndex сохраняется), продвигая
// текущую позицию на шаг вперед. Переход односторонний.
// Если plan-маркеров не осталось — domain.ErrNoPendingPlanMarker.
type ConvertNextPlanUseCase interface {
	Execute(ctx context.Context, input ConvertNextPlanInput) (*MarkerOutput, error)
}

package in

import (
	"context"
	"time"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// AppendMarkerInput — входные данные для append-операций
type AppendMarkerInput struct {
	CallerID    string     `json:"-"`
	JourneyID   string     `json:"-"`
	Longitude   float64    `json:"longitude"`
	Latitude    float64    `json:"latitude"`
	Name        string     `json:"name,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	HappenedAt  *time.Time `json:"happened_at,omitempty"`  // journey-маркеры
	EstimatedAt *time.Time `json:"estimated_at,omitempty"` // plan-маркеры
}

// MarkerOutput — результат любой маркер-операции
type MarkerOutput struct {
	Marker *domain.Marker `json:"marker"`
}

// AppendPlanMarkerUseCase добавляет plan-маркер в конец последовательности
type AppendPlanMarkerUseCase interface {
	Execute(ctx context.Context, input AppendMarkerInput) (*MarkerOutput, error)
}

// AppendJourneyMarkerUseCase добавляет journey-маркер в конец последовательности,
// обновляет текущую позицию и геоиндекс
type AppendJourneyMarkerUseCase interface {
	Execute(ctx context.Context, input AppendMarkerInput) (*MarkerOutput, error)
}

package in

import (
	"context"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// CreateJourneyInput — входные данные для создания journey
type CreateJourneyInput struct {
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateJourneyOutput — результат создания
type CreateJourneyOutput struct {
	Journey *domain.Journey `json:"journey"`
}

// CreateJourneyUseCase создает пустой journey
type CreateJourneyUseCase interface {
	Execute(ctx context.Context, input CreateJourneyInput) (*CreateJourneyOutput, error)
}

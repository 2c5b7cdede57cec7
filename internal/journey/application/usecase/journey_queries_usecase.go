package usecase

import (
	"context"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

type getJourneyUseCase struct {
	journeyRepo out.JourneyRepository
}

func NewGetJourneyUseCase(journeyRepo out.JourneyRepository) in.GetJourneyUseCase {
	return &getJourneyUseCase{journeyRepo: journeyRepo}
}

func (uc *getJourneyUseCase) Execute(ctx context.Context, callerID, journeyID string) (*domain.Journey, error) {
	return loadOwnedJourney(ctx, uc.journeyRepo, journeyID, callerID)
}

type listJourneysUseCase struct {
	journeyRepo out.JourneyRepository
}

func NewListJourneysUseCase(journeyRepo out.JourneyRepository) in.ListJourneysUseCase {
	return &listJourneysUseCase{journeyRepo: journeyRepo}
}

func (uc *listJourneysUseCase) Execute(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	return uc.journeyRepo.ListByOwner(ctx, ownerID)
}

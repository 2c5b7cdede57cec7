package usecase

import (
	"context"
	"fmt"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

type getMarkersUseCase struct {
	journeyRepo out.JourneyRepository
	markerRepo  out.MarkerRepository
}

func NewGetMarkersUseCase(journeyRepo out.JourneyRepository, markerRepo out.MarkerRepository) in.GetMarkersUseCase {
	return &getMarkersUseCase{journeyRepo: journeyRepo, markerRepo: markerRepo}
}

func (uc *getMarkersUseCase) Execute(ctx context.Context, callerID, journeyID string) ([]domain.Marker, error) {
	if _, err := loadOwnedJourney(ctx, uc.journeyRepo, journeyID, callerID); err != nil {
		return nil, err
	}

	markers, err := uc.markerRepo.GetSequence(ctx, journeyID)
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return markers, nil
}

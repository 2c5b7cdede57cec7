package usecase

import (
	"context"
	"fmt"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

type setActiveJourneyUseCase struct {
	journeyRepo out.JourneyRepository
	log         *logger.Logger
}

func NewSetActiveJourneyUseCase(journeyRepo out.JourneyRepository, log *logger.Logger) in.SetActiveJourneyUseCase {
	return &setActiveJourneyUseCase{journeyRepo: journeyRepo, log: log}
}

func (uc *setActiveJourneyUseCase) Execute(ctx context.Context, callerID, journeyID string) error {
	j, err := loadOwnedJourney(ctx, uc.journeyRepo, journeyID, callerID)
	if err != nil {
		return err
	}

	// Если journey уже активен — просто деактивируем (toggle)
	if j.Active {
		if err := uc.journeyRepo.SetActive(ctx, journeyID, false); err != nil {
			return fmt.Errorf("deactivate journey: %w", err)
		}
		uc.log.Info(logger.Entry{Action: "journey_deactivated", JourneyID: journeyID})
		return nil
	}

	// У владельца не больше одного активного journey
	if err := uc.journeyRepo.DeactivateByOwner(ctx, j.OwnerID); err != nil {
		return fmt.Errorf("deactivate previous journey: %w", err)
	}
	if err := uc.journeyRepo.SetActive(ctx, journeyID, true); err != nil {
		return fmt.Errorf("activate journey: %w", err)
	}

	uc.log.Info(logger.Entry{Action: "journey_activated", JourneyID: journeyID})
	return nil
}

type completeJourneyUseCase struct {
	journeyRepo out.JourneyRepository
	log         *logger.Logger
}

func NewCompleteJourneyUseCase(journeyRepo out.JourneyRepository, log *logger.Logger) in.CompleteJourneyUseCase {
	return &completeJourneyUseCase{journeyRepo: journeyRepo, log: log}
}

func (uc *completeJourneyUseCase) Execute(ctx context.Context, callerID, journeyID string) error {
	if _, err := loadOwnedJourney(ctx, uc.journeyRepo, journeyID, callerID); err != nil {
		return err
	}

	// Завершенный journey не может быть активным
	if err := uc.journeyRepo.SetCompleted(ctx, journeyID); err != nil {
		return fmt.Errorf("complete journey: %w", err)
	}

	uc.log.Info(logger.Entry{Action: "journey_completed", JourneyID: journeyID})
	return nil
}

package usecase

import (
	"context"
	"fmt"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

type deleteJourneyUseCase struct {
	journeyRepo out.JourneyRepository
	posIndex    out.PositionIndex
	publisher   out.EventPublisher
	log         *logger.Logger
}

func NewDeleteJourneyUseCase(
	journeyRepo out.JourneyRepository,
	posIndex out.PositionIndex,
	publisher out.EventPublisher,
	log *logger.Logger,
) in.DeleteJourneyUseCase {
	return &deleteJourneyUseCase{
		journeyRepo: journeyRepo,
		posIndex:    posIndex,
		publisher:   publisher,
		log:         log,
	}
}

// Execute выполняет каскадное удаление: journey, его маркеры и запись
// в геоиндексе. Операция необратима.
func (uc *deleteJourneyUseCase) Execute(ctx context.Context, callerID, journeyID string) error {
	j, err := loadOwnedJourney(ctx, uc.journeyRepo, journeyID, callerID)
	if err != nil {
		return err
	}

	// Убираем journey из геоиндекса до удаления строк:
	// после этого никакой proximity-запрос его не увидит
	if err := uc.posIndex.Remove(ctx, journeyID); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_remove_failed",
			Message:   err.Error(),
			JourneyID: journeyID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("remove position: %w", err)
	}

	if err := uc.journeyRepo.Delete(ctx, journeyID); err != nil {
		return fmt.Errorf("delete journey: %w", err)
	}

	if err := uc.publisher.PublishJourneyDeleted(ctx, journeyID, j.OwnerID); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "journey_deleted_publish_failed",
			Message:   err.Error(),
			JourneyID: journeyID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		// Не фатальная ошибка
	}

	uc.log.Info(logger.Entry{Action: "journey_deleted", JourneyID: journeyID})
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"

	"github.com/google/uuid"
)

type createJourneyUseCase struct {
	journeyRepo out.JourneyRepository
	publisher   out.EventPublisher
	log         *logger.Logger
}

func NewCreateJourneyUseCase(
	journeyRepo out.JourneyRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) in.CreateJourneyUseCase {
	return &createJourneyUseCase{
		journeyRepo: journeyRepo,
		publisher:   publisher,
		log:         log,
	}
}

func (uc *createJourneyUseCase) Execute(ctx context.Context, input in.CreateJourneyInput) (*in.CreateJourneyOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("journey name is required")
	}

	j := &domain.Journey{
		ID:          uuid.New().String(),
		OwnerID:     input.OwnerID,
		Name:        name,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.journeyRepo.Create(ctx, j); err != nil {
		uc.log.Error(logger.Entry{
			Action:  "journey_create_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("create journey: %w", err)
	}

	if err := uc.publisher.PublishJourneyCreated(ctx, j); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "journey_created_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		// Не фатальная ошибка
	}

	uc.log.Info(logger.Entry{
		Action:    "journey_created",
		Message:   name,
		JourneyID: j.ID,
		Additional: map[string]any{
			"owner_id": j.OwnerID,
		},
	})

	return &in.CreateJourneyOutput{Journey: j}, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/observability"

	"github.com/google/uuid"
)

type appendPlanMarkerUseCase struct {
	journeyRepo out.JourneyRepository
	markerRepo  out.MarkerRepository
	publisher   out.EventPublisher
	metrics     *observability.Collector
	log         *logger.Logger
}

func NewAppendPlanMarkerUseCase(
	journeyRepo out.JourneyRepository,
	markerRepo out.MarkerRepository,
	publisher out.EventPublisher,
	metrics *observability.Collector,
	log *logger.Logger,
) in.AppendPlanMarkerUseCase {
	return &appendPlanMarkerUseCase{
		journeyRepo: journeyRepo,
		markerRepo:  markerRepo,
		publisher:   publisher,
		metrics:     metrics,
		log:         log,
	}
}

// Execute добавляет plan-маркер в конец последовательности.
// Текущая позиция и геоиндекс не меняются.
func (uc *appendPlanMarkerUseCase) Execute(ctx context.Context, input in.AppendMarkerInput) (*in.MarkerOutput, error) {
	if err := domain.ValidateCoordinate(input.Longitude, input.Latitude); err != nil {
		return nil, err
	}

	j, err := loadOwnedJourney(ctx, uc.journeyRepo, input.JourneyID, input.CallerID)
	if err != nil {
		return nil, err
	}

	markers, err := uc.markerRepo.GetSequence(ctx, j.ID)
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}

	m := &domain.Marker{
		ID:            uuid.New().String(),
		JourneyID:     j.ID,
		Kind:          domain.MarkerKindPlan,
		Longitude:     input.Longitude,
		Latitude:      input.Latitude,
		Name:          input.Name,
		Notes:         input.Notes,
		EstimatedAt:   input.EstimatedAt,
		SequenceIndex: domain.NextSequenceIndex(markers),
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.markerRepo.Put(ctx, m); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "plan_marker_append_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}
	countMarkerWrite(uc.metrics, domain.MarkerKindPlan, "append")

	if err := uc.publisher.PublishMarkerAppended(ctx, j.OwnerID, m); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "marker_appended_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		// Не фатальная ошибка
	}

	uc.log.Debug(logger.Entry{
		Action:    "plan_marker_appended",
		JourneyID: j.ID,
		Additional: map[string]any{
			"marker_id":      m.ID,
			"sequence_index": m.SequenceIndex,
		},
	})

	return &in.MarkerOutput{Marker: m}, nil
}

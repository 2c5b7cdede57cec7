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
)

type convertNextPlanUseCase struct {
	journeyRepo out.JourneyRepository
	markerRepo  out.MarkerRepository
	posIndex    out.PositionIndex
	publisher   out.EventPublisher
	metrics     *observability.Collector
	log         *logger.Logger
}

func NewConvertNextPlanUseCase(
	journeyRepo out.JourneyRepository,
	markerRepo out.MarkerRepository,
	posIndex out.PositionIndex,
	publisher out.EventPublisher,
	metrics *observability.Collector,
	log *logger.Logger,
) in.ConvertNextPlanUseCase {
	return &convertNextPlanUseCase{
		journeyRepo: journeyRepo,
		markerRepo:  markerRepo,
		posIndex:    posIndex,
		publisher:   publisher,
		metrics:     metrics,
		log:         log,
	}
}

// Execute подтверждает ближайший запланированный waypoint: plan-маркер сразу
// после текущей позиции становится journey-маркером на том же SequenceIndex,
// текущая позиция продвигается на шаг вперед. Когда plan-маркеров впереди нет,
// операция детерминированно отвечает ErrNoPendingPlanMarker и ничего не мутирует.
func (uc *convertNextPlanUseCase) Execute(ctx context.Context, input in.ConvertNextPlanInput) (*in.MarkerOutput, error) {
	j, err := loadOwnedJourney(ctx, uc.journeyRepo, input.JourneyID, input.CallerID)
	if err != nil {
		return nil, err
	}

	markers, err := uc.markerRepo.GetSequence(ctx, j.ID)
	if err != nil {
		return nil, fmt.Errorf("read sequence: %w", err)
	}

	nextPlan, ok := domain.NextPendingPlan(markers)
	if !ok {
		return nil, domain.ErrNoPendingPlanMarker
	}

	happenedAt := time.Now().UTC()
	if input.HappenedAt != nil {
		happenedAt = input.HappenedAt.UTC()
	}

	if err := uc.markerRepo.ConvertToJourney(ctx, j.ID, nextPlan.ID, happenedAt); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "plan_marker_convert_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}
	countMarkerWrite(uc.metrics, domain.MarkerKindJourney, "convert")

	converted := nextPlan
	converted.Kind = domain.MarkerKindJourney
	converted.HappenedAt = &happenedAt

	if err := uc.posIndex.Upsert(ctx, j.ID, converted.Longitude, converted.Latitude); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_index_upsert_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	} else if err := uc.publisher.PublishPositionChanged(ctx, j.ID, j.OwnerID, converted.Longitude, converted.Latitude); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_changed_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	if err := uc.publisher.PublishMarkerConverted(ctx, j.OwnerID, &converted); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "marker_converted_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	uc.log.Debug(logger.Entry{
		Action:    "plan_marker_converted",
		JourneyID: j.ID,
		Additional: map[string]any{
			"marker_id":      converted.ID,
			"sequence_index": converted.SequenceIndex,
		},
	})

	return &in.MarkerOutput{Marker: &converted}, nil
}

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

type insertJourneyMarkerUseCase struct {
	journeyRepo out.JourneyRepository
	markerRepo  out.MarkerRepository
	posIndex    out.PositionIndex
	publisher   out.EventPublisher
	metrics     *observability.Collector
	log         *logger.Logger
}

func NewInsertJourneyMarkerUseCase(
	journeyRepo out.JourneyRepository,
	markerRepo out.MarkerRepository,
	posIndex out.PositionIndex,
	publisher out.EventPublisher,
	metrics *observability.Collector,
	log *logger.Logger,
) in.InsertJourneyMarkerUseCase {
	return &insertJourneyMarkerUseCase{
		journeyRepo: journeyRepo,
		markerRepo:  markerRepo,
		posIndex:    posIndex,
		publisher:   publisher,
		metrics:     metrics,
		log:         log,
	}
}

// Execute вставляет journey-маркер на место первого оставшегося plan-маркера,
// сдвигая его и все последующие на +1. Подтвержденная позиция записывается,
// не трогая еще не пройденный план. Вставленный маркер становится текущей позицией.
func (uc *insertJourneyMarkerUseCase) Execute(ctx context.Context, input in.AppendMarkerInput) (*in.MarkerOutput, error) {
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

	nextPlan, ok := domain.NextPendingPlan(markers)
	if !ok {
		// Плановых точек впереди нет — вызывающему следует использовать append
		return nil, domain.ErrNoPendingPlanMarker
	}

	happenedAt := input.HappenedAt
	if happenedAt == nil {
		now := time.Now().UTC()
		happenedAt = &now
	}

	m := &domain.Marker{
		ID:            uuid.New().String(),
		JourneyID:     j.ID,
		Kind:          domain.MarkerKindJourney,
		Longitude:     input.Longitude,
		Latitude:      input.Latitude,
		Name:          input.Name,
		Notes:         input.Notes,
		HappenedAt:    happenedAt,
		SequenceIndex: nextPlan.SequenceIndex,
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.markerRepo.InsertAt(ctx, m); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "journey_marker_insert_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}
	countMarkerWrite(uc.metrics, domain.MarkerKindJourney, "insert")

	// Вставленный маркер — journey-маркер с наибольшим индексом
	// (всё после него — plan), значит текущая позиция сменилась
	if err := uc.posIndex.Upsert(ctx, j.ID, m.Longitude, m.Latitude); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_index_upsert_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	} else if err := uc.publisher.PublishPositionChanged(ctx, j.ID, j.OwnerID, m.Longitude, m.Latitude); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_changed_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	if err := uc.publisher.PublishMarkerAppended(ctx, j.OwnerID, m); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "marker_appended_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	uc.log.Debug(logger.Entry{
		Action:    "journey_marker_inserted",
		JourneyID: j.ID,
		Additional: map[string]any{
			"marker_id":      m.ID,
			"sequence_index": m.SequenceIndex,
		},
	})

	return &in.MarkerOutput{Marker: m}, nil
}

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

type appendJourneyMarkerUseCase struct {
	journeyRepo out.JourneyRepository
	markerRepo  out.MarkerRepository
	posIndex    out.PositionIndex
	publisher   out.EventPublisher
	metrics     *observability.Collector
	log         *logger.Logger
}

func NewAppendJourneyMarkerUseCase(
	journeyRepo out.JourneyRepository,
	markerRepo out.MarkerRepository,
	posIndex out.PositionIndex,
	publisher out.EventPublisher,
	metrics *observability.Collector,
	log *logger.Logger,
) in.AppendJourneyMarkerUseCase {
	return &appendJourneyMarkerUseCase{
		journeyRepo: journeyRepo,
		markerRepo:  markerRepo,
		posIndex:    posIndex,
		publisher:   publisher,
		metrics:     metrics,
		log:         log,
	}
}

// Execute добавляет journey-маркер в конец последовательности. Новый маркер
// получает наибольший SequenceIndex среди journey-маркеров, то есть становится
// текущей позицией — геоиндекс обновляется всегда.
func (uc *appendJourneyMarkerUseCase) Execute(ctx context.Context, input in.AppendMarkerInput) (*in.MarkerOutput, error) {
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
		SequenceIndex: domain.NextSequenceIndex(markers),
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.markerRepo.Put(ctx, m); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "journey_marker_append_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, err
	}
	countMarkerWrite(uc.metrics, domain.MarkerKindJourney, "append")

	uc.refreshPosition(ctx, j, m)

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
		Action:    "journey_marker_appended",
		JourneyID: j.ID,
		Additional: map[string]any{
			"marker_id":      m.ID,
			"sequence_index": m.SequenceIndex,
		},
	})

	return &in.MarkerOutput{Marker: m}, nil
}

// refreshPosition обновляет геоиндекс и публикует смену текущей позиции
func (uc *appendJourneyMarkerUseCase) refreshPosition(ctx context.Context, j *domain.Journey, m *domain.Marker) {
	if err := uc.posIndex.Upsert(ctx, j.ID, m.Longitude, m.Latitude); err != nil {
		// Маркер уже записан; индекс догонит при следующем обновлении позиции
		uc.log.Error(logger.Entry{
			Action:    "position_index_upsert_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	if err := uc.publisher.PublishPositionChanged(ctx, j.ID, j.OwnerID, m.Longitude, m.Latitude); err != nil {
		uc.log.Error(logger.Entry{
			Action:    "position_changed_publish_failed",
			Message:   err.Error(),
			JourneyID: j.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}
}

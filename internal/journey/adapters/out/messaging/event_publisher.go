package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/mq"
)

type eventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

func NewEventPublisher(mq *mq.RabbitMQ, log *logger.Logger) out.EventPublisher {
	return &eventPublisher{mq: mq, log: log}
}

func (p *eventPublisher) PublishJourneyCreated(ctx context.Context, j *domain.Journey) error {
	event := map[string]any{
		"journey_id": j.ID,
		"owner_id":   j.OwnerID,
		"name":       j.Name,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	return p.publishTopic(ctx, mq.QueueJourneyCreated, j.ID, event)
}

func (p *eventPublisher) PublishJourneyDeleted(ctx context.Context, journeyID, ownerID string) error {
	event := map[string]any{
		"journey_id": journeyID,
		"owner_id":   ownerID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	return p.publishTopic(ctx, mq.QueueJourneyDeleted, journeyID, event)
}

func (p *eventPublisher) PublishMarkerAppended(ctx context.Context, ownerID string, m *domain.Marker) error {
	return p.publishTopic(ctx, mq.QueueMarkerAppended, m.JourneyID, markerEvent(ownerID, m))
}

func (p *eventPublisher) PublishMarkerConverted(ctx context.Context, ownerID string, m *domain.Marker) error {
	return p.publishTopic(ctx, mq.QueueMarkerConverted, m.JourneyID, markerEvent(ownerID, m))
}

// PublishPositionChanged уходит в fanout: подписчики (ws push, аналитика)
// получают каждое изменение текущей позиции
func (p *eventPublisher) PublishPositionChanged(ctx context.Context, journeyID, ownerID string, longitude, latitude float64) error {
	event := map[string]any{
		"journey_id": journeyID,
		"owner_id":   ownerID,
		"longitude":  longitude,
		"latitude":   latitude,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal position change: %w", err)
	}

	if err := p.mq.Publish(ctx, mq.ExchangePositionFanout, "", body); err != nil {
		p.log.Error(logger.Entry{
			Action:    "publish_position_changed_failed",
			Message:   err.Error(),
			JourneyID: journeyID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("publish position change: %w", err)
	}
	return nil
}

func (p *eventPublisher) publishTopic(ctx context.Context, routingKey, journeyID string, event map[string]any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", routingKey, err)
	}

	if err := p.mq.Publish(ctx, mq.ExchangeJourneyTopic, routingKey, body); err != nil {
		p.log.Error(logger.Entry{
			Action:    "publish_event_failed",
			Message:   err.Error(),
			JourneyID: journeyID,
			Error:     &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"routing_key": routingKey,
			},
		})
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.log.Debug(logger.Entry{
		Action:    "event_published",
		Message:   routingKey,
		JourneyID: journeyID,
	})
	return nil
}

func markerEvent(ownerID string, m *domain.Marker) map[string]any {
	return map[string]any{
		"journey_id":     m.JourneyID,
		"owner_id":       ownerID,
		"marker_id":      m.ID,
		"kind":           string(m.Kind),
		"longitude":      m.Longitude,
		"latitude":       m.Latitude,
		"sequence_index": m.SequenceIndex,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}
}

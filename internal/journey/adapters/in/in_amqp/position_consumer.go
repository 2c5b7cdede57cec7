package in_amqp

import (
	"context"
	"encoding/json"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/mq"
	"github.com/jacantwell/kairos-backend/internal/shared/ws"
)

// PositionConsumer слушает fanout изменений текущей позиции и пушит их
// владельцу journey через WebSocket. Соседям ничего не рассылается:
// чужую позицию можно получить только явным запросом neighbors.
type PositionConsumer struct {
	mq  *mq.RabbitMQ
	hub *ws.Hub
	log *logger.Logger
}

func NewPositionConsumer(mq *mq.RabbitMQ, hub *ws.Hub, log *logger.Logger) *PositionConsumer {
	return &PositionConsumer{
		mq:  mq,
		hub: hub,
		log: log,
	}
}

// positionChangedEvent — формат сообщения из position_fanout
type positionChangedEvent struct {
	JourneyID string  `json:"journey_id"`
	OwnerID   string  `json:"owner_id"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Timestamp string  `json:"timestamp"`
}

// Start запускает консьюмер для очереди position.updates
func (c *PositionConsumer) Start(ctx context.Context) error {
	c.log.Info(logger.Entry{
		Action:  "position_consumer_starting",
		Message: "starting position updates consumer",
	})

	return c.mq.Consume(ctx, mq.QueuePositionUpdates, "journey-service", func(msg amqp091.Delivery) {
		c.handlePositionChanged(msg)
	})
}

func (c *PositionConsumer) handlePositionChanged(msg amqp091.Delivery) {
	var event positionChangedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "position_event_unmarshal_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false)
		return
	}

	if event.OwnerID == "" || event.JourneyID == "" {
		c.log.Warn(logger.Entry{
			Action:  "position_event_invalid",
			Message: "owner_id or journey_id missing",
		})
		_ = msg.Nack(false, false)
		return
	}

	if !c.hub.IsUserConnected(event.OwnerID) {
		_ = msg.Ack(false)
		return
	}

	push := map[string]any{
		"type":       "position_changed",
		"journey_id": event.JourneyID,
		"longitude":  event.Longitude,
		"latitude":   event.Latitude,
		"timestamp":  event.Timestamp,
	}

	if err := c.hub.SendToUserJSON(event.OwnerID, push); err != nil {
		c.log.Error(logger.Entry{
			Action:    "position_push_failed",
			Message:   err.Error(),
			JourneyID: event.JourneyID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	_ = msg.Ack(false)
}

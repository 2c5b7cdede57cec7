package mq

import (
	"fmt"
)

// Exchanges и очереди доменных событий
const (
	ExchangeJourneyTopic   = "journey_topic"
	ExchangePositionFanout = "position_fanout"

	QueueJourneyCreated  = "journey.created"
	QueueJourneyDeleted  = "journey.deleted"
	QueueMarkerAppended  = "marker.appended"
	QueueMarkerConverted = "marker.converted"

	// Очередь для push текущих позиций владельцам
	QueuePositionUpdates = "position.updates"
)

// SetupTopology создает все exchanges, queues и bindings
func SetupTopology(mq *RabbitMQ) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	// 1. Exchange: journey_topic (topic)
	if err := ch.ExchangeDeclare(
		ExchangeJourneyTopic,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangeJourneyTopic, err)
	}

	// 2. Exchange: position_fanout (fanout)
	if err := ch.ExchangeDeclare(
		ExchangePositionFanout,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare %s: %w", ExchangePositionFanout, err)
	}

	// 3. Очереди journey_topic, routing key совпадает с именем очереди
	topicQueues := []string{
		QueueJourneyCreated,
		QueueJourneyDeleted,
		QueueMarkerAppended,
		QueueMarkerConverted,
	}
	for _, q := range topicQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, ExchangeJourneyTopic, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	// 4. Очередь position_fanout
	if _, err := ch.QueueDeclare(QueuePositionUpdates, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueuePositionUpdates, err)
	}
	if err := ch.QueueBind(QueuePositionUpdates, "", ExchangePositionFanout, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueuePositionUpdates, err)
	}

	return nil
}

package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"refinery/contexts/data-refinery/marketplace-service/ports"
)

// subscriberBuffer bounds each consumer's in-flight queue; publishers never
// block on a slow consumer, they drop and log instead.
const subscriberBuffer = 128

// Kafka carries sale events from the outbox relay to consumers. The broker
// list is recorded for wiring parity with a networked deployment, but
// delivery is in-process: one fan-out channel per subscriber, at-most-once.
type Kafka struct {
	mu          sync.RWMutex
	brokers     string
	subscribers map[string][]chan ports.EventEnvelope
	logger      *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	bus := &Kafka{
		brokers:     strings.Join(brokers, ","),
		subscribers: make(map[string][]chan ports.EventEnvelope),
		logger:      logger,
	}
	if logger != nil {
		logger.Info("event bus ready",
			"event", "kafka_ready",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"brokers", bus.brokers,
		)
	}
	return bus, nil
}

// Publish fans the event out to every subscriber of the topic. A subscriber
// whose buffer is full loses the event; the outbox row it came from is
// already marked sent, so redelivery is a consumer-side concern.
func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	k.mu.RLock()
	subs := append([]chan ports.EventEnvelope(nil), k.subscribers[topic]...)
	k.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
			delivered++
		default:
			if k.logger != nil {
				k.logger.Warn("dropping event for slow subscriber",
					"event", "kafka_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"delivered", delivered,
		)
	}
	return nil
}

// Subscribe runs handler for every event on the topic until ctx is done.
// Handler errors are logged and the subscription keeps going.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	ch := make(chan ports.EventEnvelope, subscriberBuffer)

	k.mu.Lock()
	k.subscribers[topic] = append(k.subscribers[topic], ch)
	k.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.removeSubscriber(topic, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil && k.logger != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) removeSubscriber(topic string, target chan ports.EventEnvelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := k.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan ports.EventEnvelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	k.subscribers[topic] = filtered
}

package publisher

import (
	"context"
	"fmt"

	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/events"
	"github.com/invoflow/invoflow/internal/kafka"
	"github.com/invoflow/invoflow/internal/logger"
	"github.com/invoflow/invoflow/internal/types"
	"go.uber.org/zap"
)

// EventPublisher handles reconciliation event publishing
type EventPublisher interface {
	Publish(ctx context.Context, event *events.Event) error
}

type eventPublisher struct {
	kafkaPublisher *kafka.EventPublisher
	logger         *logger.Logger
	config         *config.EventConfig
}

// NewEventPublisher creates a publisher for the configured destination
func NewEventPublisher(
	cfg *config.Configuration,
	logger *logger.Logger,
	kafkaProducer *kafka.Producer,
) (EventPublisher, error) {
	publisher := &eventPublisher{
		logger: logger,
		config: &cfg.Event,
	}

	switch cfg.Event.PublishDestination {
	case types.PublishToKafka:
		if kafkaProducer == nil {
			return nil, fmt.Errorf("kafka producer is not initialized but it is the publish destination")
		}
		publisher.kafkaPublisher = kafka.NewEventPublisher(kafkaProducer, cfg, logger)
	case types.PublishToNoop:
		// events are logged and dropped
	default:
		return nil, fmt.Errorf("unknown publish destination: %s", cfg.Event.PublishDestination)
	}

	return publisher, nil
}

func (s *eventPublisher) Publish(ctx context.Context, event *events.Event) error {
	s.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_name", event.EventName),
		zap.String("destination", string(s.config.PublishDestination)),
	).Debugw("publishing event")

	if s.kafkaPublisher == nil {
		return nil
	}
	return s.kafkaPublisher.Publish(ctx, event)
}

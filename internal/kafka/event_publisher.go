package kafka

import (
	"context"
	"encoding/json"

	"github.com/invoflow/invoflow/internal/config"
	"github.com/invoflow/invoflow/internal/domain/events"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/logger"
	"go.uber.org/zap"
)

type EventPublisher struct {
	producer *Producer
	logger   *logger.Logger
	config   *config.EventConfig
}

func NewEventPublisher(producer *Producer, cfg *config.Configuration, logger *logger.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		logger:   logger,
		config:   &cfg.Event,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event *events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to marshal event").
			Mark(ierr.ErrValidation)
	}

	p.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_name", event.EventName),
		zap.String("tenant_id", event.TenantID),
	).Debugw("publishing event to kafka")

	if err := p.producer.PublishWithID(p.config.Topic, payload, event.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish event").
			Mark(ierr.ErrSystem)
	}
	return nil
}

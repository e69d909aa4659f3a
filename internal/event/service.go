package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/craftline/storefront/internal/storage/mq"
)

// Service consumes the storefront's own domain events. The handlers are audit
// sinks today; downstream consumers (search indexer, notifications) hang off
// the same topics.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := registerJSONHandler(s.mqConsumer, TopicDealActivated, s.handleDealActivated); err != nil {
		return nil, err
	}
	if err := registerJSONHandler(s.mqConsumer, TopicDealExpired, s.handleDealExpired); err != nil {
		return nil, err
	}
	if err := registerJSONHandler(s.mqConsumer, TopicCouponApplied, s.handleCouponApplied); err != nil {
		return nil, err
	}
	if err := registerJSONHandler(s.mqConsumer, TopicCouponRemoved, s.handleCouponRemoved); err != nil {
		return nil, err
	}
	if err := registerJSONHandler(s.mqConsumer, TopicPaymentInitiated, s.handlePaymentInitiated); err != nil {
		return nil, err
	}
	if err := registerJSONHandler(s.mqConsumer, TopicPaymentCallback, s.handlePaymentCallback); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return func() { mqCleanup() }, nil
}

func registerJSONHandler[T any](consumer mq.Consumer, topic string, handle func(ctx context.Context, ev T) error) error {
	err := consumer.RegisterHandler(topic, func(ctx context.Context, _ string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("register %s handler: %w", topic, err)
	}

	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/craftline/storefront/internal/repository"
	"github.com/craftline/storefront/pkg/outbox"
	"github.com/craftline/storefront/pkg/ptr"
)

// createOutboxEvent marshals the payload and stores it in the outbox table
// on the caller's transaction, so event emission commits or rolls back with
// the state change it describes.
func createOutboxEvent(ctx context.Context, repo repository.OutboxMsgRepository, topic string, payload any, partitionKey string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      raw,
		PartitionKey: ptr.New(partitionKey),
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

package outbox

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tasklane/internal/shared/application"
	"github.com/felixgeelhaar/tasklane/internal/shared/domain"
)

// Record stamps events with the request's tracing metadata and saves them.
// Call it inside the unit of work that made the change.
func Record(ctx context.Context, repo Repository, events ...domain.DomainEvent) error {
	if repo == nil || len(events) == 0 {
		return nil
	}

	application.ApplyEventMetadata(events, application.EventMetadataFromContext(ctx))

	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.RoutingKey(), err)
		}
		msgs = append(msgs, msg)
	}
	return repo.SaveBatch(ctx, msgs)
}

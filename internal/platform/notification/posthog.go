package notification

import (
	"context"
	"errors"

	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/utils"
)

var errPosthogDisabled = errors.New("posthog client not initialized")

// PosthogPublisher records events as product analytics captures.
type PosthogPublisher struct {
	client *utils.PosthogClientWrapper
}

// NewPosthogPublisher wraps an initialized PostHog client.
func NewPosthogPublisher(client *utils.PosthogClientWrapper) *PosthogPublisher {
	return &PosthogPublisher{client: client}
}

func (p *PosthogPublisher) Name() string { return "posthog" }

// Publish enqueues the capture. The PostHog client batches and sends it asynchronously.
func (p *PosthogPublisher) Publish(_ context.Context, event domain.Event) error {
	if p.client == nil || !p.client.IsInitialized() {
		return errPosthogDisabled
	}
	distinctID := event.CustomerID
	if distinctID == "" {
		distinctID = event.Key
	}
	p.client.Enqueue(distinctID, event.Topic, map[string]any{
		"key":         event.Key,
		"occurred_at": event.OccurredAt,
		"payload":     event.Payload,
	})
	return nil
}

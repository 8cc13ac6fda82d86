package matchpublisherv1

import "context"

// MatchPublisher defines the interface for publishing match events.
type MatchPublisher interface {
	// PublishMatchEvents writes the events to the trade topic in order.
	PublishMatchEvents(ctx context.Context, events ...*MatchEvent) error
}

package marketdatav1

import "context"

// Publisher pushes the latest market data of a pair to subscribers.
type Publisher interface {
	// Publish stores the latest book and stats and announces the update.
	Publish(ctx context.Context, update Update) error
}

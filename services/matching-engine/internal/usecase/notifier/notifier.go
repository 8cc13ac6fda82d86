package notifier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thesushilsharma/Liquid-Matrix/pkg/errors"
	"github.com/thesushilsharma/Liquid-Matrix/pkg/logger"
	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Notifier fans events out to registered listeners. Listeners run
// synchronously on the notifying goroutine; a panicking listener is logged and
// does not affect the others.
type Notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]orderbookv1.Listener
	logger    *logger.Logger
}

// NewNotifier creates a Notifier without listeners.
func NewNotifier(log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Notifier{
		listeners: make(map[uint64]orderbookv1.Listener),
		logger:    log,
	}
}

// Subscribe registers l. The returned function unregisters it and may be called more than once.
func (n *Notifier) Subscribe(l orderbookv1.Listener) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Len returns the number of registered listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Notify delivers evt to every listener registered when the call starts.
func (n *Notifier) Notify(evt orderbookv1.Event) {
	for _, l := range n.snapshot() {
		n.deliver(l, evt)
	}
}

func (n *Notifier) snapshot() []orderbookv1.Listener {
	n.mu.Lock()
	defer n.mu.Unlock()

	ids := make([]uint64, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	listeners := make([]orderbookv1.Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, n.listeners[id])
	}
	return listeners
}

func (n *Notifier) deliver(l orderbookv1.Listener, evt orderbookv1.Event) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error(errors.NewTracer("listener_panic").Wrap(fmt.Errorf("%v", r)),
				logger.Field{Key: "event", Value: evt.Type},
				logger.Field{Key: "sequence", Value: evt.Sequence},
			)
		}
	}()

	l(evt)
}

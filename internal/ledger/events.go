package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/tally/pkg/registry"
)

// EventKind classifies counter events.
type EventKind string

const (
	// EventCreated is published when a counter is created.
	EventCreated EventKind = "created"

	// EventUpdated is published when a counter's value changes.
	EventUpdated EventKind = "updated"
)

// Event describes one mutation of the registry, published to the instance's
// counter-events channel as JSON.
type Event struct {
	ID        string             `json:"id"`              // event identifier
	Kind      EventKind          `json:"kind"`            // created or updated
	CounterID string             `json:"counter_id"`      // the affected counter
	Value     int32              `json:"value"`           // value after the mutation
	Owner     registry.AccountID `json:"owner,omitempty"` // set on created events
	AtMs      int64              `json:"at_ms"`           // unix milliseconds
}

func newEvent(kind EventKind, counterID string, value int32, owner registry.AccountID) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		CounterID: counterID,
		Value:     value,
		Owner:     owner,
		AtMs:      time.Now().UnixMilli(),
	}
}

func (l *Ledger) publish(ctx context.Context, ev *Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal counter event: %w", err)
	}
	channel := CounterEventsChannel(l.instanceName)
	if err := l.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish counter event: %w", err)
	}
	return nil
}

// Subscription represents an active Pub/Sub subscription to counter events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *Event
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of counter events. The channel is closed when
// the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *Event {
	return s.events
}

// Errors returns the channel of subscription errors. Errors are non-fatal;
// the subscription continues and the offending message is skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements
// io.Closer. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeCounterEvents subscribes to counter events for this instance.
// Caller must call subscription.Close() when done; context cancellation also
// stops the subscription.
//
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once: a slow subscriber may miss events.
func (l *Ledger) SubscribeCounterEvents(ctx context.Context) (*Subscription, error) {
	channel := CounterEventsChannel(l.instanceName)
	pubsub := l.rdb.Subscribe(ctx, channel)

	eventsChan := make(chan *Event, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal counter event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

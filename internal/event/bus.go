package event

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Envelope is what handlers receive for each published event.
type Envelope struct {
	Topic   Topic
	Payload any
}

// HandlerFunc handles a delivered event.
type HandlerFunc func(env Envelope) error

// Subscription represents an active event subscription.
type Subscription struct {
	id      string
	pattern Topic
	handler HandlerFunc
	bus     *Bus
	active  atomic.Bool
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed topic pattern.
func (s *Subscription) Topic() Topic { return s.pattern }

// IsActive returns true if the subscription can receive events.
func (s *Subscription) IsActive() bool { return s.active.Load() }

// Cancel permanently cancels the subscription. It is safe to call more
// than once.
func (s *Subscription) Cancel() {
	if s.active.Swap(false) {
		s.bus.remove(s)
	}
}

// Stats holds bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	HandlerPanics uint64
}

// Bus is a synchronous topic-based event bus. It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []*Subscription

	published     atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events whose topic matches pattern.
func (b *Bus) Subscribe(pattern Topic, fn HandlerFunc) (*Subscription, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: fn,
		bus:     b,
	}
	sub.active.Store(true)

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub, nil
}

// Unsubscribe cancels sub.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// Publish delivers payload to every subscription matching t and returns
// the handler failures joined into one error.
func (b *Bus) Publish(t Topic, payload any) error {
	if !t.Valid() || t.IsPattern() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	b.published.Add(1)

	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if t.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	env := Envelope{Topic: t, Payload: payload}
	var errs []error
	for _, s := range targets {
		if !s.IsActive() {
			continue
		}
		if err := b.deliver(s, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(s *Subscription, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = &HandlerError{
				SubscriptionID: s.id,
				Topic:          env.Topic,
				Err:            fmt.Errorf("%w: %v", ErrHandlerPanic, r),
			}
		}
	}()

	b.delivered.Add(1)
	if herr := s.handler(env); herr != nil {
		b.handlerErrors.Add(1)
		return &HandlerError{SubscriptionID: s.id, Topic: env.Topic, Err: herr}
	}
	return nil
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.subs {
		if cur == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerErrors: b.handlerErrors.Load(),
		HandlerPanics: b.handlerPanics.Load(),
	}
}

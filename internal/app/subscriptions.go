package app

import (
	"sync"

	"github.com/dshills/minicalc/internal/event"
)

// Patterns the application subscribes to.
const (
	topicConfigAll event.Topic = "config.*"
	topicWidgetAll event.Topic = "widget.*"
)

// subscriptionManager manages event bus subscriptions for the application.
type subscriptionManager struct {
	mu            sync.Mutex
	subscriptions []*event.Subscription
	app           *Application
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(app *Application) *subscriptionManager {
	return &subscriptionManager{app: app}
}

// setup registers all event subscriptions.
func (sm *subscriptionManager) setup() error {
	handlers := []struct {
		topic event.Topic
		fn    event.HandlerFunc
	}{
		{event.TopicEquals, sm.handleEquals},
		{topicConfigAll, sm.handleConfig},
		{topicWidgetAll, sm.handleWidget},
	}

	for _, h := range handlers {
		sub, err := sm.app.bus.Subscribe(h.topic, h.fn)
		if err != nil {
			sm.cleanup()
			return err
		}
		sm.addSubscription(sub)
	}
	return nil
}

func (sm *subscriptionManager) addSubscription(sub *event.Subscription) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.subscriptions = append(sm.subscriptions, sub)
}

// cleanup unsubscribes all managed subscriptions.
// Safe to call multiple times (idempotent).
func (sm *subscriptionManager) cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sub := range sm.subscriptions {
		sm.app.bus.Unsubscribe(sub)
	}
	sm.subscriptions = nil
}

// count returns the number of managed subscriptions.
func (sm *subscriptionManager) count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.subscriptions)
}

// Event Handlers

func (sm *subscriptionManager) handleEquals(env event.Envelope) error {
	if c, ok := env.Payload.(Computation); ok {
		sm.app.logger.WithComponent("engine").Info("%s", c)
	}
	return nil
}

func (sm *subscriptionManager) handleConfig(env event.Envelope) error {
	log := sm.app.logger.WithComponent("config")
	switch env.Topic {
	case event.TopicConfigReloaded:
		log.Info("reloaded %v", env.Payload)
	case event.TopicConfigError:
		log.Warn("reload rejected, keeping previous settings: %v", env.Payload)
	}
	return nil
}

func (sm *subscriptionManager) handleWidget(env event.Envelope) error {
	sm.app.logger.WithComponent("ui").Debug("%s", env.Topic)
	return nil
}

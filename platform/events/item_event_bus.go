package events

import (
	"sync"

	"todoblog/domain/events"
	"todoblog/logging"
)

// ItemEventBus provides type-safe event publishing and subscription for item events.
// Handlers run asynchronously; a panicking handler is logged and does not affect others.
type ItemEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	itemCreatedHandlers []func(events.ItemCreatedEvent)
	itemDeletedHandlers []func(events.ItemDeletedEvent)
}

var _ events.ItemEventPublisher = (*ItemEventBus)(nil)

// NewItemEventBus creates a new typed item event bus
func NewItemEventBus() *ItemEventBus {
	return &ItemEventBus{
		logger:              logging.Default().WithComponent("item_event_bus"),
		itemCreatedHandlers: make([]func(events.ItemCreatedEvent), 0),
		itemDeletedHandlers: make([]func(events.ItemDeletedEvent), 0),
	}
}

func (bus *ItemEventBus) OnItemCreated(handler func(events.ItemCreatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.itemCreatedHandlers = append(bus.itemCreatedHandlers, handler)
}

func (bus *ItemEventBus) OnItemDeleted(handler func(events.ItemDeletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.itemDeletedHandlers = append(bus.itemDeletedHandlers, handler)
}

func (bus *ItemEventBus) PublishItemCreated(event events.ItemCreatedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ItemCreatedEvent), len(bus.itemCreatedHandlers))
	copy(handlers, bus.itemCreatedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.ItemCreatedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in ItemCreated",
						"item_id", event.Item.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *ItemEventBus) PublishItemDeleted(event events.ItemDeletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ItemDeletedEvent), len(bus.itemDeletedHandlers))
	copy(handlers, bus.itemDeletedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.ItemDeletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in ItemDeleted",
						"item_id", event.ItemID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

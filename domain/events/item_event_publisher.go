package events

// ItemEventPublisher defines the interface for publishing item events.
type ItemEventPublisher interface {
	PublishItemCreated(event ItemCreatedEvent)
	PublishItemDeleted(event ItemDeletedEvent)
}

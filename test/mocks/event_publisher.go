package mocks

import (
	"github.com/stretchr/testify/mock"

	"todoblog/domain/events"
)

// MockItemEventPublisher is a mock implementation of ItemEventPublisher for testing
type MockItemEventPublisher struct {
	mock.Mock
}

func (m *MockItemEventPublisher) PublishItemCreated(event events.ItemCreatedEvent) {
	m.Called(event)
}

func (m *MockItemEventPublisher) PublishItemDeleted(event events.ItemDeletedEvent) {
	m.Called(event)
}

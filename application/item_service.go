package application

import (
	"context"
	"fmt"
	"time"

	"todoblog/domain/contracts"
	"todoblog/domain/events"
	"todoblog/domain/todo"
	"todoblog/logging"
)

// ItemService runs the item operations of the list and detail pages against the
// data service, choosing the authorization mode each operation requires.
type ItemService struct {
	data      contracts.DataService
	publisher events.ItemEventPublisher
	clock     func() time.Time
	logger    *logging.Logger
}

// NewItemService creates an item service. publisher may be nil.
func NewItemService(data contracts.DataService, publisher events.ItemEventPublisher) *ItemService {
	return &ItemService{
		data:      data,
		publisher: publisher,
		clock:     time.Now,
		logger:    logging.Default().WithComponent("item_service"),
	}
}

// ListItems loads every item with the client's default authorization mode.
func (s *ItemService) ListItems(ctx context.Context) ([]todo.Item, error) {
	start := s.clock()
	items, err := s.data.ListItems(ctx, contracts.DefaultAuth())
	if err != nil {
		return nil, err
	}
	s.logger.Performance("list_items", s.clock().Sub(start))
	return items, nil
}

// GetItem loads one item with the client's default authorization mode.
func (s *ItemService) GetItem(ctx context.Context, id string) (*todo.Item, error) {
	return s.data.GetItem(ctx, contracts.DefaultAuth(), id)
}

// CreateItem validates input and creates the item as the user owning token.
// Validation failures are returned as validation.Errors wrapped in the error chain.
func (s *ItemService) CreateItem(ctx context.Context, token string, input todo.CreateItemInput) (*todo.Item, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid item: %w", err)
	}
	if token == "" {
		return nil, contracts.ErrUnauthenticated
	}

	item, err := s.data.CreateItem(ctx, contracts.UserPoolAuth(token), input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item created", "item_id", item.ID)
	if s.publisher != nil {
		s.publisher.PublishItemCreated(events.ItemCreatedEvent{Item: *item, Timestamp: s.clock()})
	}
	return item, nil
}

// DeleteItem deletes the item as the user owning token.
func (s *ItemService) DeleteItem(ctx context.Context, token, id string) error {
	if token == "" {
		return contracts.ErrUnauthenticated
	}

	if _, err := s.data.DeleteItem(ctx, contracts.UserPoolAuth(token), id); err != nil {
		return err
	}

	s.logger.Info("Item deleted", "item_id", id)
	if s.publisher != nil {
		s.publisher.PublishItemDeleted(events.ItemDeletedEvent{ItemID: id, Timestamp: s.clock()})
	}
	return nil
}

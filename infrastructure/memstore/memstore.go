// Package memstore is an in-process data service for local development. It applies
// the same authorization rules as the hosted API: anyone may read, only signed-in
// users may create or delete.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"todoblog/domain/contracts"
	"todoblog/domain/todo"
)

// TokenVerifier validates a user-pool token.
type TokenVerifier func(token string) error

// Store keeps items in insertion order.
type Store struct {
	mu     sync.RWMutex
	items  []todo.Item
	verify TokenVerifier
	now    func() time.Time
}

var _ contracts.DataService = (*Store)(nil)

// New creates an empty store. A nil verify accepts any non-empty token.
func New(verify TokenVerifier) *Store {
	return &Store{
		items:  make([]todo.Item, 0),
		verify: verify,
		now:    time.Now,
	}
}

// Seed appends items as if they had been created earlier.
func (s *Store) Seed(items ...todo.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

func (s *Store) ListItems(ctx context.Context, auth contracts.Authorization) ([]todo.Item, error) {
	if err := s.authorizeRead("listBlogs", auth); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]todo.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) GetItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	if err := s.authorizeRead("getBlog", auth); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("getBlog %q: %w", id, contracts.ErrItemNotFound)
}

func (s *Store) CreateItem(ctx context.Context, auth contracts.Authorization, input todo.CreateItemInput) (*todo.Item, error) {
	if err := s.authorizeWrite("createBlog", auth); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := todo.Item{
		ID:        uuid.NewString(),
		Name:      input.Name,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return &item, nil
}

func (s *Store) DeleteItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	if err := s.authorizeWrite("deleteBlog", auth); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return &item, nil
		}
	}
	return nil, &contracts.ServiceError{
		Operation: "deleteBlog",
		Errors: []contracts.GraphQLError{{
			Message:   "The conditional request failed",
			ErrorType: "DynamoDB:ConditionalCheckFailedException",
		}},
	}
}

func (s *Store) authorizeRead(operation string, auth contracts.Authorization) error {
	if auth.Mode == contracts.AuthModeUserPool {
		return s.authorizeWrite(operation, auth)
	}
	return nil
}

func (s *Store) authorizeWrite(operation string, auth contracts.Authorization) error {
	if auth.Mode != contracts.AuthModeUserPool {
		return unauthorized(operation)
	}
	if auth.Token == "" {
		return contracts.ErrUnauthenticated
	}
	if s.verify != nil {
		if err := s.verify(auth.Token); err != nil {
			return unauthorized(operation)
		}
	}
	return nil
}

func unauthorized(operation string) error {
	return &contracts.ServiceError{
		Operation: operation,
		Errors: []contracts.GraphQLError{{
			Message:   fmt.Sprintf("Not Authorized to access %s on type Mutation", operation),
			ErrorType: "Unauthorized",
		}},
	}
}

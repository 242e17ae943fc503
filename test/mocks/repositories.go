package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/domain/todo"
)

// MockDataService implements contracts.DataService for testing
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) ListItems(ctx context.Context, auth contracts.Authorization) ([]todo.Item, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]todo.Item), args.Error(1)
}

func (m *MockDataService) GetItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	args := m.Called(ctx, auth, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Item), args.Error(1)
}

func (m *MockDataService) CreateItem(ctx context.Context, auth contracts.Authorization, input todo.CreateItemInput) (*todo.Item, error) {
	args := m.Called(ctx, auth, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Item), args.Error(1)
}

func (m *MockDataService) DeleteItem(ctx context.Context, auth contracts.Authorization, id string) (*todo.Item, error) {
	args := m.Called(ctx, auth, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Item), args.Error(1)
}

// MockPageRepository implements contracts.PageRepository for testing
type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) Get(ctx context.Context, path string) (*pages.PageRecord, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pages.PageRecord), args.Error(1)
}

func (m *MockPageRepository) Save(ctx context.Context, record *pages.PageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPageRepository) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockPageRepository) ListPaths(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPageRenderer implements contracts.PageRenderer for testing
type MockPageRenderer struct {
	mock.Mock
}

func (m *MockPageRenderer) RenderDetail(ctx context.Context, item todo.Item) ([]byte, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

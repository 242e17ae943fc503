package helpers

import (
	"time"

	"github.com/stretchr/testify/mock"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/domain/todo"
	"todoblog/test/mocks"
)

// MockDependencies holds the collaborators of the application services
type MockDependencies struct {
	Data      *mocks.MockDataService
	Pages     *mocks.MockPageRepository
	Renderer  *mocks.MockPageRenderer
	Publisher *mocks.MockItemEventPublisher
}

// NewMockDependencies creates a new set of mocks
func NewMockDependencies() *MockDependencies {
	return &MockDependencies{
		Data:      &mocks.MockDataService{},
		Pages:     &mocks.MockPageRepository{},
		Renderer:  &mocks.MockPageRenderer{},
		Publisher: &mocks.MockItemEventPublisher{},
	}
}

// ExpectList sets up a successful listBlogs call under auth
func (m *MockDependencies) ExpectList(auth contracts.Authorization, items []todo.Item) {
	m.Data.On("ListItems", mock.Anything, auth).Return(items, nil)
}

// ExpectItem sets up a successful getBlog call with the client default mode
func (m *MockDependencies) ExpectItem(item todo.Item) {
	m.Data.On("GetItem", mock.Anything, contracts.DefaultAuth(), item.ID).Return(&item, nil)
}

// ExpectMissingItem sets up a getBlog call that finds nothing
func (m *MockDependencies) ExpectMissingItem(id string) {
	m.Data.On("GetItem", mock.Anything, contracts.DefaultAuth(), id).Return(nil, contracts.ErrItemNotFound)
}

// ExpectPageMiss sets up a page store miss for the item's detail path
func (m *MockDependencies) ExpectPageMiss(id string) {
	m.Pages.On("Get", mock.Anything, pages.DetailPath(id)).Return(nil, contracts.ErrPageNotFound)
}

// ExpectRender sets up rendering of item to html
func (m *MockDependencies) ExpectRender(item todo.Item, html string) {
	m.Renderer.On("RenderDetail", mock.Anything, item).Return([]byte(html), nil)
}

// AssertExpectations asserts every mock
func (m *MockDependencies) AssertExpectations(t mock.TestingT) {
	m.Data.AssertExpectations(t)
	m.Pages.AssertExpectations(t)
	m.Renderer.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

// CreateTestItem builds an item with fixed timestamps
func CreateTestItem(id, name string) todo.Item {
	created := time.Date(2024, 5, 1, 15, 45, 0, 0, time.UTC)
	return todo.Item{ID: id, Name: name, CreatedAt: &created, UpdatedAt: &created}
}

// CreateTestRecord builds a stored detail page for id
func CreateTestRecord(id string, source pages.PageSource, html string) *pages.PageRecord {
	return &pages.PageRecord{
		Path:        pages.DetailPath(id),
		ItemID:      id,
		HTML:        []byte(html),
		Source:      source,
		GeneratedAt: time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC),
	}
}

// ItemIDs returns the identifiers of items in order
func ItemIDs(items []todo.Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ContainsItem reports whether items includes an item with id
func ContainsItem(items []todo.Item, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

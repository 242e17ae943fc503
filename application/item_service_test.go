package application

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todoblog/domain/contracts"
	"todoblog/domain/events"
	"todoblog/domain/todo"
	"todoblog/infrastructure/memstore"
	"todoblog/test/helpers"
)

func TestItemService_ListItems(t *testing.T) {
	deps := helpers.NewMockDependencies()
	items := []todo.Item{helpers.CreateTestItem("a", "first"), helpers.CreateTestItem("b", "second")}
	deps.ExpectList(contracts.DefaultAuth(), items)

	service := NewItemService(deps.Data, deps.Publisher)
	got, err := service.ListItems(context.Background())

	require.NoError(t, err)
	assert.Equal(t, items, got)
	deps.AssertExpectations(t)
}

func TestItemService_ListItemsFailureIsNotAnEmptyList(t *testing.T) {
	deps := helpers.NewMockDependencies()
	serviceErr := &contracts.ServiceError{
		Operation: "listBlogs",
		Errors:    []contracts.GraphQLError{{Message: "Unauthorized"}, {Message: "Not Authorized to access listBlogs"}},
	}
	deps.Data.On("ListItems", mock.Anything, contracts.DefaultAuth()).Return(nil, serviceErr)

	got, err := NewItemService(deps.Data, deps.Publisher).ListItems(context.Background())

	assert.Nil(t, got)
	se, ok := contracts.AsServiceError(err)
	require.True(t, ok)
	assert.Len(t, se.Errors, 2)
}

func TestItemService_CreateItem(t *testing.T) {
	deps := helpers.NewMockDependencies()
	created := helpers.CreateTestItem("new-id", "Today, 3:45:00 PM")
	deps.Data.On("CreateItem", mock.Anything, contracts.UserPoolAuth("id-token"),
		todo.CreateItemInput{Name: "Today, 3:45:00 PM", Content: todo.DefaultContent}).
		Return(&created, nil)
	deps.Publisher.On("PublishItemCreated", mock.MatchedBy(func(e events.ItemCreatedEvent) bool {
		return e.Item.ID == "new-id"
	})).Return()

	service := NewItemService(deps.Data, deps.Publisher)
	item, err := service.CreateItem(context.Background(), "id-token", todo.CreateItemInput{
		Name:    "  Today, 3:45:00 PM ",
		Content: todo.DefaultContent,
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", item.ID)
	deps.AssertExpectations(t)
}

func TestItemService_CreateItemRejects(t *testing.T) {
	t.Run("blank title", func(t *testing.T) {
		deps := helpers.NewMockDependencies()

		_, err := NewItemService(deps.Data, deps.Publisher).
			CreateItem(context.Background(), "id-token", todo.CreateItemInput{Name: "   "})

		var verrs validation.Errors
		require.True(t, errors.As(err, &verrs))
		assert.EqualError(t, verrs["Name"], "title is required")
		deps.Data.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no session", func(t *testing.T) {
		deps := helpers.NewMockDependencies()

		_, err := NewItemService(deps.Data, deps.Publisher).
			CreateItem(context.Background(), "", todo.CreateItemInput{Name: "title"})

		assert.ErrorIs(t, err, contracts.ErrUnauthenticated)
		deps.Data.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service failure publishes nothing", func(t *testing.T) {
		deps := helpers.NewMockDependencies()
		deps.Data.On("CreateItem", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, contracts.NewServiceError("createBlog", errors.New("connection reset")))

		_, err := NewItemService(deps.Data, deps.Publisher).
			CreateItem(context.Background(), "id-token", todo.CreateItemInput{Name: "title"})

		assert.Error(t, err)
		deps.Publisher.AssertNotCalled(t, "PublishItemCreated", mock.Anything)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	deps := helpers.NewMockDependencies()
	deps.Data.On("DeleteItem", mock.Anything, contracts.UserPoolAuth("id-token"), "x").
		Return(&todo.Item{ID: "x"}, nil)
	deps.Publisher.On("PublishItemDeleted", mock.MatchedBy(func(e events.ItemDeletedEvent) bool {
		return e.ItemID == "x"
	})).Return()

	err := NewItemService(deps.Data, deps.Publisher).DeleteItem(context.Background(), "id-token", "x")

	require.NoError(t, err)
	deps.AssertExpectations(t)

	err = NewItemService(deps.Data, nil).DeleteItem(context.Background(), "", "x")
	assert.ErrorIs(t, err, contracts.ErrUnauthenticated)
}

func TestItemService_DeletedItemLeavesList(t *testing.T) {
	store := memstore.New(nil)
	store.Seed(todo.Item{ID: "keep", Name: "keep"}, todo.Item{ID: "x", Name: "gone"})
	service := NewItemService(store, nil)
	ctx := context.Background()

	require.NoError(t, service.DeleteItem(ctx, "token", "x"))

	items, err := service.ListItems(ctx)
	require.NoError(t, err)
	assert.False(t, helpers.ContainsItem(items, "x"))
	assert.True(t, helpers.ContainsItem(items, "keep"))
}

package presenters

import (
	"todoblog/authn"
	"todoblog/domain/todo"
	"todoblog/interfaces/web/templates/views"
)

// ItemPresenterInterface defines the contract for item presentation logic.
type ItemPresenterInterface interface {
	// ToListPageView converts the loaded items and session to the list page.
	ToListPageView(items []todo.Item, session *authn.Session, form *views.CreateFormView) views.ListPageView
	// ToDetailPageView converts an item to its detail page.
	ToDetailPageView(item todo.Item) views.DetailPageView
}

// Ensure ItemPresenter implements the interface.
var _ ItemPresenterInterface = (*ItemPresenter)(nil)

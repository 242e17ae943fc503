package views

import "todoblog/interfaces/web/templates/components/ui"

// ItemCardView is one entry of the list page grid.
type ItemCardView struct {
	ID   string
	Name string
	Href string
}

// CreateFormView holds the values and message of the creation form.
type CreateFormView struct {
	Title   string
	Content string
	Error   string
}

// SignInView is the sign-in form, standalone or inside the list page card.
type SignInView struct {
	AppTitle string
	Username string
	Error    string
	Strategy string
}

// ListPageView is the list page.
type ListPageView struct {
	AppTitle string
	Items    []ItemCardView
	Count    int
	SignedIn bool
	Username string
	Form     CreateFormView
	SignIn   SignInView
}

// DetailPageView is a loaded detail page. It must not depend on the viewer,
// since it is stored and served to everyone.
type DetailPageView struct {
	AppTitle     string
	ID           string
	Name         string
	Description  string
	CreatedAt    string
	DeleteAction string
}

// LoadingView is the fallback shell of a detail page that is being generated.
type LoadingView struct {
	AppTitle   string
	ResolveURL string
}

// NotFoundView is a detail page for an identifier the data service does not know.
type NotFoundView struct {
	AppTitle string
	ID       string
}

// ErrorPageView is a failed page load.
type ErrorPageView struct {
	AppTitle string
	Status   int
	Notice   ui.NoticeView
}

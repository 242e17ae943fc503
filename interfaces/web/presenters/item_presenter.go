package presenters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"todoblog/authn"
	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/domain/todo"
	"todoblog/interfaces/web/templates/components/ui"
	"todoblog/interfaces/web/templates/views"
)

// ItemPresenter turns items, sessions and errors into page view models.
type ItemPresenter struct {
	appTitle string
	clock    func() time.Time
}

// NewItemPresenter creates a presenter. A nil clock uses time.Now.
func NewItemPresenter(appTitle string, clock func() time.Time) *ItemPresenter {
	if clock == nil {
		clock = time.Now
	}
	return &ItemPresenter{appTitle: appTitle, clock: clock}
}

// DefaultCreateForm is the creation form as first shown.
func (p *ItemPresenter) DefaultCreateForm() views.CreateFormView {
	return views.CreateFormView{
		Title:   todo.DefaultTitle(p.clock()),
		Content: todo.DefaultContent,
	}
}

// ToListPageView builds the list page. A nil form shows the defaults.
func (p *ItemPresenter) ToListPageView(items []todo.Item, session *authn.Session, form *views.CreateFormView) views.ListPageView {
	cards := make([]views.ItemCardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, views.ItemCardView{
			ID:   item.ID,
			Name: item.Name,
			Href: pages.DetailPath(item.ID),
		})
	}

	v := views.ListPageView{
		AppTitle: p.appTitle,
		Items:    cards,
		Count:    len(items),
		SignedIn: session.Authenticated(),
		SignIn:   views.SignInView{AppTitle: p.appTitle},
	}
	if v.SignedIn {
		v.Username = session.Username
		if form != nil {
			v.Form = *form
		} else {
			v.Form = p.DefaultCreateForm()
		}
	}
	return v
}

// ToDetailPageView builds a loaded detail page.
func (p *ItemPresenter) ToDetailPageView(item todo.Item) views.DetailPageView {
	v := views.DetailPageView{
		AppTitle:     p.appTitle,
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Name,
		DeleteAction: pages.DetailPath(item.ID) + "/delete",
	}
	if item.CreatedAt != nil {
		v.CreatedAt = item.CreatedAt.UTC().Format("Jan 2, 2006 3:04 PM MST")
	}
	return v
}

// ToLoadingView builds the fallback shell for id.
func (p *ItemPresenter) ToLoadingView(id string) views.LoadingView {
	return views.LoadingView{
		AppTitle:   p.appTitle,
		ResolveURL: pages.DetailPath(id) + "?resolve=1",
	}
}

func (p *ItemPresenter) ToNotFoundView(id string) views.NotFoundView {
	return views.NotFoundView{AppTitle: p.appTitle, ID: id}
}

// ToSignInView builds the sign-in page.
func (p *ItemPresenter) ToSignInView(username, message, strategy string) views.SignInView {
	return views.SignInView{
		AppTitle: p.appTitle,
		Username: username,
		Error:    message,
		Strategy: strategy,
	}
}

// ToErrorPageView builds an error page. Data-service failures list every message
// the service reported.
func (p *ItemPresenter) ToErrorPageView(status int, err error) views.ErrorPageView {
	notice := ui.NoticeView{Kind: ui.NoticeError, Title: http.StatusText(status)}
	if se, ok := contracts.AsServiceError(err); ok {
		notice.Title = fmt.Sprintf("The data service rejected %s", se.Operation)
		notice.Details = se.Messages()
	} else if err != nil {
		notice.Details = []string{err.Error()}
	}
	return views.ErrorPageView{AppTitle: p.appTitle, Status: status, Notice: notice}
}

// ValidationMessage returns the field messages of a validation failure in err,
// or "" when err is not one.
func (p *ItemPresenter) ValidationMessage(err error) string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return ""
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var buf bytes.Buffer
	for i, field := range fields {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(verrs[field].Error())
	}
	return buf.String()
}

// DetailRenderer renders stored detail pages.
type DetailRenderer struct {
	presenter *ItemPresenter
}

var _ contracts.PageRenderer = (*DetailRenderer)(nil)

func NewDetailRenderer(presenter *ItemPresenter) *DetailRenderer {
	return &DetailRenderer{presenter: presenter}
}

func (r *DetailRenderer) RenderDetail(ctx context.Context, item todo.Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := views.DetailPage(r.presenter.ToDetailPageView(item)).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

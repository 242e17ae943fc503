package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"todoblog/authn"
	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/domain/todo"
	"todoblog/interfaces/web/presenters"
	"todoblog/interfaces/web/templates/views"
	"todoblog/logging"
)

// ItemService is the item orchestration the pages use.
type ItemService interface {
	ListItems(ctx context.Context) ([]todo.Item, error)
	CreateItem(ctx context.Context, token string, input todo.CreateItemInput) (*todo.Item, error)
	DeleteItem(ctx context.Context, token, id string) error
}

// StaticPages resolves, generates and evicts stored detail pages.
type StaticPages interface {
	Resolve(ctx context.Context, id string) (*pages.DetailPage, error)
	Generate(ctx context.Context, id string, source pages.PageSource) (*pages.DetailPage, error)
	Invalidate(ctx context.Context, id string) error
}

// ItemHandlers serves the list and detail pages.
type ItemHandlers struct {
	items     ItemService
	pages     StaticPages
	presenter *presenters.ItemPresenter
	logger    *logging.Logger
}

// NewItemHandlers creates item handlers.
func NewItemHandlers(items ItemService, staticPages StaticPages, presenter *presenters.ItemPresenter) *ItemHandlers {
	return &ItemHandlers{
		items:     items,
		pages:     staticPages,
		presenter: presenter,
		logger:    logging.Default().WithComponent("item_handlers"),
	}
}

// Home renders the list page from a fresh listBlogs call. A failed load is an
// error page, never an empty list.
func (h *ItemHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, nil)
}

func (h *ItemHandlers) renderList(w http.ResponseWriter, r *http.Request, status int, form *views.CreateFormView) {
	ctx := r.Context()

	items, err := h.items.ListItems(ctx)
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, "Failed to load items", err)
		return
	}

	session := authn.SessionFromContext(ctx)
	RenderStatus(ctx, w, r, status, views.ListPage(h.presenter.ToListPageView(items, session, form)))
}

// CreateItem handles the creation form and navigates to the new item's page.
func (h *ItemHandlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := authn.SessionFromContext(ctx)
	if !session.Authenticated() {
		Navigate(w, r, "/signin")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	input := todo.CreateItemInput{
		Name:    r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	item, err := h.items.CreateItem(ctx, session.Token, input)
	if err != nil {
		if msg := h.presenter.ValidationMessage(err); msg != "" {
			h.renderList(w, r, http.StatusUnprocessableEntity, &views.CreateFormView{
				Title:   input.Name,
				Content: input.Content,
				Error:   msg,
			})
			return
		}
		if errors.Is(err, contracts.ErrUnauthenticated) {
			Navigate(w, r, "/signin")
			return
		}
		h.fail(w, r, http.StatusBadGateway, "Failed to create item", err)
		return
	}

	Navigate(w, r, pages.DetailPath(item.ID))
}

// Detail serves a stored detail page, the fallback shell, or not-found.
// With ?resolve=1 it generates the page on demand.
func (h *ItemHandlers) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		RenderStatus(r.Context(), w, r, http.StatusNotFound, views.NotFoundPage(h.presenter.ToNotFoundView(id)))
		return
	}
	if r.URL.Query().Get("resolve") != "" {
		h.resolve(w, r, id)
		return
	}

	ctx := r.Context()
	page, err := h.pages.Resolve(ctx, id)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Failed to resolve page", err)
		return
	}

	switch page.State {
	case pages.StateLoaded:
		h.serveLoaded(w, r, page.Record)
	case pages.StateFallbackLoading:
		w.Header().Set("Cache-Control", "no-store")
		RenderResponse(ctx, w, r, views.LoadingPage(h.presenter.ToLoadingView(id)))
	default:
		h.renderNotFound(w, r, id)
	}
}

func (h *ItemHandlers) resolve(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	page, err := h.pages.Resolve(ctx, id)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Failed to resolve page", err)
		return
	}
	if page.State == pages.StateFallbackLoading {
		page, err = h.pages.Generate(ctx, id, pages.SourceFallback)
		if err != nil {
			h.fail(w, r, http.StatusBadGateway, "Failed to generate page", err)
			return
		}
	}

	if page.State != pages.StateLoaded {
		h.renderNotFound(w, r, id)
		return
	}
	h.serveLoaded(w, r, page.Record)
}

// serveLoaded writes a stored page. HTMX swaps into the fallback shell get the
// page body rebuilt from the stored props.
func (h *ItemHandlers) serveLoaded(w http.ResponseWriter, r *http.Request, record *pages.PageRecord) {
	w.Header().Set("X-Page-Source", string(record.Source))

	if IsHTMXRequest(r) && len(record.Props) > 0 {
		var item todo.Item
		if err := json.Unmarshal(record.Props, &item); err == nil {
			RenderResponse(r.Context(), w, r, views.DetailFragment(h.presenter.ToDetailPageView(item)))
			return
		}
		h.logger.Warn("Stored page has unreadable props", "path", record.Path)
	}
	WriteHTML(w, http.StatusOK, record.HTML)
}

// renderNotFound answers HTMX with 200 so the fragment is swapped in.
func (h *ItemHandlers) renderNotFound(w http.ResponseWriter, r *http.Request, id string) {
	v := h.presenter.ToNotFoundView(id)
	if IsHTMXRequest(r) {
		RenderResponse(r.Context(), w, r, views.NotFoundBody(v))
		return
	}
	RenderStatus(r.Context(), w, r, http.StatusNotFound, views.NotFoundPage(v))
}

// DeleteItem deletes the item, evicts its stored page and navigates to the list
// page. The eviction happens before navigating so the detail route stops serving
// the item at once.
func (h *ItemHandlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := authn.SessionFromContext(ctx)
	if !session.Authenticated() {
		Navigate(w, r, "/signin")
		return
	}

	id, ok := itemID(r)
	if !ok {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	if err := h.items.DeleteItem(ctx, session.Token, id); err != nil {
		if errors.Is(err, contracts.ErrUnauthenticated) {
			Navigate(w, r, "/signin")
			return
		}
		h.fail(w, r, http.StatusBadGateway, "Failed to delete item", err)
		return
	}

	if err := h.pages.Invalidate(ctx, id); err != nil {
		h.fail(w, r, http.StatusInternalServerError, "Failed to evict deleted item page", err)
		return
	}

	Navigate(w, r, "/")
}

// fail logs err once and renders the error page with every service message.
func (h *ItemHandlers) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	h.logger.WithContext(r.Context()).Error(msg, "path", r.URL.Path, "status", status, "error", err)
	RenderStatus(r.Context(), w, r, status, views.ErrorPage(h.presenter.ToErrorPageView(status, err)))
}

// itemID reads the {id} route parameter. chi matches on the escaped path when
// one exists, so the parameter is unescaped in that case.
func itemID(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return raw, raw != ""
	}
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return raw, false
	}
	return id, true
}

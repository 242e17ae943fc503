package events

import (
	"context"
	"time"

	"todoblog/domain/events"
	"todoblog/domain/pages"
	"todoblog/logging"
)

// PageGenerator is the part of the static page service the handlers drive.
type PageGenerator interface {
	Generate(ctx context.Context, id string, source pages.PageSource) (*pages.DetailPage, error)
	Invalidate(ctx context.Context, id string) error
}

// PageEventHandlers keeps stored detail pages in step with item changes.
type PageEventHandlers struct {
	generator        PageGenerator
	prerenderCreated bool
	timeout          time.Duration
	logger           *logging.Logger
}

// NewPageEventHandlers creates handlers; prerenderCreated makes creation generate
// the new item's page ahead of its first request.
func NewPageEventHandlers(generator PageGenerator, prerenderCreated bool) *PageEventHandlers {
	return &PageEventHandlers{
		generator:        generator,
		prerenderCreated: prerenderCreated,
		timeout:          30 * time.Second,
		logger:           logging.Default().WithComponent("page_events"),
	}
}

// RegisterHandlers registers the page handlers with the event bus
func (h *PageEventHandlers) RegisterHandlers(eventBus *ItemEventBus) {
	eventBus.OnItemDeleted(h.handleItemDeleted)
	if h.prerenderCreated {
		eventBus.OnItemCreated(h.handleItemCreated)
	}
}

func (h *PageEventHandlers) handleItemDeleted(event events.ItemDeletedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.generator.Invalidate(ctx, event.ItemID); err != nil {
		h.logger.Error("Failed to evict page for deleted item", "item_id", event.ItemID, "error", err)
		return
	}
	h.logger.Info("Evicted page for deleted item", "item_id", event.ItemID)
}

func (h *PageEventHandlers) handleItemCreated(event events.ItemCreatedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	page, err := h.generator.Generate(ctx, event.Item.ID, pages.SourceCreate)
	if err != nil {
		h.logger.Error("Failed to pre-generate page for created item", "item_id", event.Item.ID, "error", err)
		return
	}
	h.logger.Info("Pre-generated page for created item", "item_id", event.Item.ID, "state", string(page.State))
}

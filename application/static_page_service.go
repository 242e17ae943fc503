package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/logging"
)

// PrerenderFailure is a path whose generation failed during a prerender run.
type PrerenderFailure struct {
	ID  string
	Err error
}

// PrerenderReport summarizes a prerender run.
type PrerenderReport struct {
	Generated []string
	Missing   []string
	Failed    []PrerenderFailure
	Pruned    []string // stored paths whose item is no longer listed
	Duration  time.Duration
}

// Total is the number of paths the run visited.
func (r *PrerenderReport) Total() int {
	return len(r.Generated) + len(r.Missing) + len(r.Failed)
}

// StaticPageService generates detail pages ahead of time and on demand, and keeps
// them in the page store.
type StaticPageService struct {
	data     contracts.DataService
	store    contracts.PageRepository
	renderer contracts.PageRenderer
	fallback bool
	group    singleflight.Group
	timeout  time.Duration
	clock    func() time.Time
	logger   *logging.Logger

	// mu serializes page saves with evictions. evictions counts evictions per
	// path, so a generation that fetched before an eviction does not store.
	mu        sync.Mutex
	evictions map[string]uint64
}

// NewStaticPageService creates the service. With fallback disabled, paths missing
// from the store resolve to not-found instead of being generated on request.
func NewStaticPageService(data contracts.DataService, store contracts.PageRepository, renderer contracts.PageRenderer, fallback bool) *StaticPageService {
	return &StaticPageService{
		data:      data,
		store:     store,
		renderer:  renderer,
		fallback:  fallback,
		timeout:   30 * time.Second,
		clock:     time.Now,
		logger:    logging.Default().WithComponent("static_pages"),
		evictions: make(map[string]uint64),
	}
}

// FallbackEnabled reports whether unknown paths are generated on request.
func (s *StaticPageService) FallbackEnabled() bool {
	return s.fallback
}

// EnumeratePaths lists items anonymously and returns one path per distinct
// identifier in first-seen order. Blank identifiers are skipped.
func (s *StaticPageService) EnumeratePaths(ctx context.Context) ([]pages.StaticPath, error) {
	items, err := s.data.ListItems(ctx, contracts.APIKeyAuth())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	paths := make([]pages.StaticPath, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		paths = append(paths, pages.NewStaticPath(item.ID))
	}
	return paths, nil
}

// Prerender generates and stores the page of every enumerated path, one at a time,
// then evicts stored pages of items that are no longer listed. Per-path failures
// are reported, not returned; enumeration, pruning and cancellation failures are.
func (s *StaticPageService) Prerender(ctx context.Context) (*PrerenderReport, error) {
	start := s.clock()
	paths, err := s.EnumeratePaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate paths: %w", err)
	}

	report := &PrerenderReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		page, err := s.Generate(ctx, path.ID, pages.SourceBuild)
		switch {
		case err != nil:
			report.Failed = append(report.Failed, PrerenderFailure{ID: path.ID, Err: err})
		case page.State == pages.StateNotFound:
			report.Missing = append(report.Missing, path.ID)
		default:
			report.Generated = append(report.Generated, path.ID)
		}
	}

	pruned, err := s.prune(ctx, paths, report.Missing, start)
	report.Pruned = pruned
	report.Duration = s.clock().Sub(start)
	if err != nil {
		return report, fmt.Errorf("prune stale pages: %w", err)
	}

	s.logger.Render("Prerender finished",
		"generated", len(report.Generated),
		"missing", len(report.Missing),
		"failed", len(report.Failed),
		"pruned", len(report.Pruned),
		"duration_ms", report.Duration.Milliseconds())
	return report, nil
}

// prune evicts stored pages that are not among the listed paths, or whose item
// was listed but is gone. Pages generated after the run started are kept, since
// their item was created after enumeration.
func (s *StaticPageService) prune(ctx context.Context, listed []pages.StaticPath, missing []string, started time.Time) ([]string, error) {
	keep := make(map[string]struct{}, len(listed))
	for _, path := range listed {
		keep[path.Path] = struct{}{}
	}
	for _, id := range missing {
		delete(keep, pages.DetailPath(id))
	}

	stored, err := s.store.ListPaths(ctx)
	if err != nil {
		return nil, err
	}

	var pruned []string
	for _, path := range stored {
		if _, ok := keep[path]; ok {
			continue
		}
		record, err := s.store.Get(ctx, path)
		if errors.Is(err, contracts.ErrPageNotFound) {
			continue
		}
		if err != nil {
			return pruned, err
		}
		if record.GeneratedAt.After(started) {
			continue
		}
		if err := s.evict(ctx, path); err != nil {
			return pruned, err
		}
		pruned = append(pruned, path)
	}
	return pruned, nil
}

// Resolve looks the detail page of id up in the store without calling the data
// service. A miss is fallback-loading when fallback is enabled, not-found otherwise.
func (s *StaticPageService) Resolve(ctx context.Context, id string) (*pages.DetailPage, error) {
	record, err := s.store.Get(ctx, pages.DetailPath(id))
	if err == nil {
		return &pages.DetailPage{State: pages.StateLoaded, Record: record}, nil
	}
	if !errors.Is(err, contracts.ErrPageNotFound) {
		return nil, fmt.Errorf("load stored page: %w", err)
	}

	if s.fallback {
		return &pages.DetailPage{State: pages.StateFallbackLoading}, nil
	}
	return &pages.DetailPage{State: pages.StateNotFound}, nil
}

// Generate fetches the item, renders its page and stores it under source.
// Concurrent calls for the same id share one fetch, which runs detached from any
// single caller's cancellation. An absent item yields not-found and nothing is
// stored; so does an item whose page is evicted while it is being generated.
func (s *StaticPageService) Generate(ctx context.Context, id string, source pages.PageSource) (*pages.DetailPage, error) {
	ch := s.group.DoChan(id, func() (any, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.generate(genCtx, id, source)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Shared in-flight page generation", "item_id", id)
		}
		return res.Val.(*pages.DetailPage), nil
	}
}

func (s *StaticPageService) generate(ctx context.Context, id string, source pages.PageSource) (*pages.DetailPage, error) {
	start := s.clock()
	path := pages.DetailPath(id)
	epoch := s.evictionCount(path)

	item, err := s.data.GetItem(ctx, contracts.DefaultAuth(), id)
	if errors.Is(err, contracts.ErrItemNotFound) {
		s.logger.Render("Item not found, page not generated", "item_id", id)
		return &pages.DetailPage{State: pages.StateNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.RenderDetail(ctx, *item)
	if err != nil {
		return nil, fmt.Errorf("render detail page: %w", err)
	}
	props, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode page props: %w", err)
	}

	record := &pages.PageRecord{
		Path:        path,
		ItemID:      item.ID,
		HTML:        html,
		Props:       props,
		Source:      source,
		GeneratedAt: s.clock(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evictions[path] != epoch {
		s.logger.Render("Page evicted during generation, not stored", "item_id", id)
		return &pages.DetailPage{State: pages.StateNotFound}, nil
	}
	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("store page: %w", err)
	}

	s.logger.Render("Page generated", "item_id", id, "source", string(source),
		"duration_ms", s.clock().Sub(start).Milliseconds())
	return &pages.DetailPage{State: pages.StateLoaded, Record: record}, nil
}

// Invalidate removes the stored page of id. A generation of the same page that
// is still in flight will not store its result.
func (s *StaticPageService) Invalidate(ctx context.Context, id string) error {
	return s.evict(ctx, pages.DetailPath(id))
}

func (s *StaticPageService) evict(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictions[path]++
	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("evict page: %w", err)
	}
	return nil
}

func (s *StaticPageService) evictionCount(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictions[path]
}

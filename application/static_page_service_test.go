package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todoblog/domain/contracts"
	"todoblog/domain/pages"
	"todoblog/domain/todo"
	"todoblog/infrastructure/repositories"
	"todoblog/test/helpers"
)

func TestStaticPageService_EnumeratePaths(t *testing.T) {
	deps := helpers.NewMockDependencies()
	deps.ExpectList(contracts.APIKeyAuth(), []todo.Item{
		{ID: "b"}, {ID: "a"}, {ID: "b"}, {ID: ""}, {ID: "c"}, {ID: "a"},
	})

	service := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true)
	paths, err := service.EnumeratePaths(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []pages.StaticPath{
		{ID: "b", Path: "/todo/b"},
		{ID: "a", Path: "/todo/a"},
		{ID: "c", Path: "/todo/c"},
	}, paths)
	deps.AssertExpectations(t)
}

func TestStaticPageService_EnumeratePathsFailure(t *testing.T) {
	deps := helpers.NewMockDependencies()
	deps.Data.On("ListItems", mock.Anything, contracts.APIKeyAuth()).
		Return(nil, contracts.NewServiceError("listBlogs", errors.New("dial tcp: timeout")))

	service := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true)
	_, err := service.EnumeratePaths(context.Background())

	_, ok := contracts.AsServiceError(err)
	assert.True(t, ok)
}

func TestStaticPageService_Prerender(t *testing.T) {
	deps := helpers.NewMockDependencies()
	ok := helpers.CreateTestItem("ok", "kept")
	broken := helpers.CreateTestItem("broken", "render fails")
	deps.ExpectList(contracts.APIKeyAuth(), []todo.Item{ok, {ID: "gone"}, broken})
	deps.ExpectItem(ok)
	deps.ExpectMissingItem("gone")
	deps.ExpectItem(broken)
	deps.ExpectRender(ok, "<h1>kept</h1>")
	deps.Renderer.On("RenderDetail", mock.Anything, broken).Return(nil, errors.New("template exploded"))
	deps.Pages.On("Save", mock.Anything, mock.MatchedBy(func(r *pages.PageRecord) bool {
		return r.Path == "/todo/ok" && r.Source == pages.SourceBuild && string(r.HTML) == "<h1>kept</h1>"
	})).Return(nil).Once()

	// Stored before this run: "gone" is listed but missing, "deleted" is no longer listed.
	deps.Pages.On("ListPaths", mock.Anything).
		Return([]string{"/todo/broken", "/todo/deleted", "/todo/gone", "/todo/ok"}, nil)
	for _, id := range []string{"deleted", "gone"} {
		deps.Pages.On("Get", mock.Anything, pages.DetailPath(id)).
			Return(helpers.CreateTestRecord(id, pages.SourceBuild, "<p>old</p>"), nil)
		deps.Pages.On("Delete", mock.Anything, pages.DetailPath(id)).Return(nil).Once()
	}

	service := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true)
	report, err := service.Prerender(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, report.Generated)
	assert.Equal(t, []string{"gone"}, report.Missing)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "broken", report.Failed[0].ID)
	assert.Equal(t, []string{"/todo/deleted", "/todo/gone"}, report.Pruned)
	assert.Equal(t, 3, report.Total())
	deps.AssertExpectations(t)
}

func TestStaticPageService_PrerenderKeepsPagesGeneratedDuringRun(t *testing.T) {
	deps := helpers.NewMockDependencies()
	item := helpers.CreateTestItem("a", "listed")
	deps.ExpectList(contracts.APIKeyAuth(), []todo.Item{item})
	deps.ExpectItem(item)
	deps.ExpectRender(item, "<h1>listed</h1>")

	store := repositories.NewMemoryPageRepository()
	ctx := context.Background()
	stale := helpers.CreateTestRecord("stale", pages.SourceBuild, "<p>stale</p>")
	require.NoError(t, store.Save(ctx, stale))
	late := helpers.CreateTestRecord("late", pages.SourceCreate, "<p>late</p>")
	late.GeneratedAt = time.Now().Add(time.Hour)
	require.NoError(t, store.Save(ctx, late))

	service := NewStaticPageService(deps.Data, store, deps.Renderer, true)
	report, err := service.Prerender(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"/todo/stale"}, report.Pruned)
	paths, err := store.ListPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/todo/a", "/todo/late"}, paths)
}

func TestStaticPageService_PrerenderPruneFailure(t *testing.T) {
	deps := helpers.NewMockDependencies()
	deps.ExpectList(contracts.APIKeyAuth(), []todo.Item{})
	deps.Pages.On("ListPaths", mock.Anything).Return(nil, errors.New("redis: connection refused"))

	service := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true)
	report, err := service.Prerender(context.Background())

	assert.ErrorContains(t, err, "prune stale pages")
	require.NotNil(t, report)
	assert.Empty(t, report.Pruned)
}

func TestStaticPageService_Resolve(t *testing.T) {
	t.Run("stored page is loaded", func(t *testing.T) {
		deps := helpers.NewMockDependencies()
		record := helpers.CreateTestRecord("a", pages.SourceBuild, "<p>a</p>")
		deps.Pages.On("Get", mock.Anything, "/todo/a").Return(record, nil)

		page, err := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true).
			Resolve(context.Background(), "a")

		require.NoError(t, err)
		assert.Equal(t, pages.StateLoaded, page.State)
		assert.Same(t, record, page.Record)
		deps.Data.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss with fallback", func(t *testing.T) {
		deps := helpers.NewMockDependencies()
		deps.ExpectPageMiss("new")

		page, err := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true).
			Resolve(context.Background(), "new")

		require.NoError(t, err)
		assert.Equal(t, pages.StateFallbackLoading, page.State)
		assert.Nil(t, page.Record)
	})

	t.Run("miss without fallback", func(t *testing.T) {
		deps := helpers.NewMockDependencies()
		deps.ExpectPageMiss("new")

		page, err := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, false).
			Resolve(context.Background(), "new")

		require.NoError(t, err)
		assert.Equal(t, pages.StateNotFound, page.State)
	})

	t.Run("store failure", func(t *testing.T) {
		deps := helpers.NewMockDependencies()
		deps.Pages.On("Get", mock.Anything, "/todo/a").Return(nil, errors.New("disk I/O error"))

		_, err := NewStaticPageService(deps.Data, deps.Pages, deps.Renderer, true).
			Resolve(context.Background(), "a")

		assert.ErrorContains(t, err, "disk I/O error")
	})
}

func TestStaticPageService_FallbackFlow(t *testing.T) {
	deps := helpers.NewMockDependencies()
	item := helpers.CreateTestItem("fresh", "made after build")
	deps.ExpectItem(item)
	deps.ExpectRender(item, "<h1>made after build</h1>")

	store := repositories.NewMemoryPageRepository()
	service := NewStaticPageService(deps.Data, store, deps.Renderer, true)
	ctx := context.Background()

	first, err := service.Resolve(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, pages.StateFallbackLoading, first.State)

	generated, err := service.Generate(ctx, "fresh", pages.SourceFallback)
	require.NoError(t, err)
	assert.Equal(t, pages.StateLoaded, generated.State)
	assert.JSONEq(t, `{"id":"fresh","name":"made after build","createdAt":"2024-05-01T15:45:00Z","updatedAt":"2024-05-01T15:45:00Z"}`,
		string(generated.Record.Props))

	again, err := service.Resolve(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, pages.StateLoaded, again.State)
	assert.Equal(t, pages.SourceFallback, again.Record.Source)
	assert.Equal(t, "<h1>made after build</h1>", string(again.Record.HTML))

	require.NoError(t, service.Invalidate(ctx, "fresh"))
	evicted, err := service.Resolve(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, pages.StateFallbackLoading, evicted.State)

	deps.Data.AssertNumberOfCalls(t, "GetItem", 1)
}

func TestStaticPageService_GenerateMissingItemStoresNothing(t *testing.T) {
	deps := helpers.NewMockDependencies()
	deps.ExpectMissingItem("nope")

	store := repositories.NewMemoryPageRepository()
	service := NewStaticPageService(deps.Data, store, deps.Renderer, true)

	page, err := service.Generate(context.Background(), "nope", pages.SourceFallback)

	require.NoError(t, err)
	assert.Equal(t, pages.StateNotFound, page.State)
	paths, err := store.ListPaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStaticPageService_GenerateSharesInFlightFetch(t *testing.T) {
	deps := helpers.NewMockDependencies()
	item := helpers.CreateTestItem("hot", "popular")
	release := make(chan struct{})
	deps.Data.On("GetItem", mock.Anything, contracts.DefaultAuth(), "hot").
		Run(func(mock.Arguments) { <-release }).
		Return(&item, nil)
	deps.ExpectRender(item, "<h1>popular</h1>")

	service := NewStaticPageService(deps.Data, repositories.NewMemoryPageRepository(), deps.Renderer, true)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*pages.DetailPage, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page, err := service.Generate(context.Background(), "hot", pages.SourceFallback)
			assert.NoError(t, err)
			results[i] = page
		}(i)
	}

	// Let every caller join the in-flight generation before the fetch returns.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	deps.Data.AssertNumberOfCalls(t, "GetItem", 1)
	for _, page := range results {
		require.NotNil(t, page)
		assert.Equal(t, pages.StateLoaded, page.State)
	}
}

func TestStaticPageService_EvictionDuringGenerationIsNotOverwritten(t *testing.T) {
	deps := helpers.NewMockDependencies()
	item := helpers.CreateTestItem("x", "about to be deleted")
	fetching := make(chan struct{})
	release := make(chan struct{})
	deps.Data.On("GetItem", mock.Anything, contracts.DefaultAuth(), "x").
		Run(func(mock.Arguments) {
			close(fetching)
			<-release
		}).
		Return(&item, nil)
	deps.Renderer.On("RenderDetail", mock.Anything, item).Return([]byte("<h1>stale</h1>"), nil).Maybe()

	store := repositories.NewMemoryPageRepository()
	service := NewStaticPageService(deps.Data, store, deps.Renderer, true)
	ctx := context.Background()

	done := make(chan *pages.DetailPage, 1)
	go func() {
		page, err := service.Generate(ctx, "x", pages.SourceFallback)
		assert.NoError(t, err)
		done <- page
	}()

	<-fetching
	require.NoError(t, service.Invalidate(ctx, "x"))
	close(release)

	page := <-done
	require.NotNil(t, page)
	assert.Equal(t, pages.StateNotFound, page.State)

	_, err := store.Get(ctx, "/todo/x")
	assert.ErrorIs(t, err, contracts.ErrPageNotFound)
	resolved, err := service.Resolve(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, pages.StateFallbackLoading, resolved.State)
}

func TestStaticPageService_GenerateSurvivesCallerCancellation(t *testing.T) {
	deps := helpers.NewMockDependencies()
	item := helpers.CreateTestItem("shared", "still fetched")
	fetching := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	var fetchCtx context.Context
	deps.Data.On("GetItem", mock.Anything, contracts.DefaultAuth(), "shared").
		Run(func(args mock.Arguments) {
			first.Do(func() {
				fetchCtx = args.Get(0).(context.Context)
				close(fetching)
			})
			<-release
		}).
		Return(&item, nil)
	deps.Renderer.On("RenderDetail", mock.Anything, item).Return([]byte("<h1>still fetched</h1>"), nil)

	store := repositories.NewMemoryPageRepository()
	service := NewStaticPageService(deps.Data, store, deps.Renderer, true)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := service.Generate(firstCtx, "shared", pages.SourceFallback)
		firstErr <- err
	}()
	<-fetching

	second := make(chan *pages.DetailPage, 1)
	go func() {
		page, err := service.Generate(context.Background(), "shared", pages.SourceFallback)
		assert.NoError(t, err)
		second <- page
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.NoError(t, fetchCtx.Err())

	close(release)
	page := <-second
	require.NotNil(t, page)
	assert.Equal(t, pages.StateLoaded, page.State)
	_, err := store.Get(context.Background(), "/todo/shared")
	assert.NoError(t, err)
}

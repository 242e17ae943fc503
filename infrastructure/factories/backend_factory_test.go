package factories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoblog/authn"
	"todoblog/domain/contracts"
	"todoblog/domain/todo"
	"todoblog/infrastructure/config"
	"todoblog/infrastructure/memstore"
	"todoblog/infrastructure/repositories"
	"todoblog/logging"
)

func localConfig(t *testing.T, pageStore string) *config.AppConfig {
	t.Helper()
	cfg := config.LoadAppConfigFromEnv()
	cfg.Backend = config.BackendMemory
	cfg.PageStore = pageStore
	cfg.Database.Path = filepath.Join(t.TempDir(), "pages.db")
	cfg.Auth = authn.Config{
		Strategy:      authn.StrategyLocal,
		LocalUsername: "demo",
		LocalPassword: "pw",
		LocalSecret:   "secret",
	}
	return cfg
}

func TestNewBackend_MemoryWithSqlitePages(t *testing.T) {
	ctx := context.Background()
	b, err := NewBackend(ctx, localConfig(t, config.PageStoreSQLite), logging.Default())
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &memstore.Store{}, b.Data)
	assert.IsType(t, &repositories.SqlitePageRepository{}, b.Pages)
	assert.Equal(t, authn.StrategyLocal, b.Auth.Strategy())

	status, err := b.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"database": "ok"}, status)
}

func TestNewBackend_MemoryStoreVerifiesTokens(t *testing.T) {
	ctx := context.Background()
	b, err := NewBackend(ctx, localConfig(t, config.PageStoreMemory), logging.Default())
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Data.CreateItem(ctx, contracts.UserPoolAuth("forged"), todo.CreateItemInput{Name: "x"})
	_, isServiceErr := contracts.AsServiceError(err)
	assert.True(t, isServiceErr)

	session, err := b.Auth.SignIn(ctx, "demo", "pw")
	require.NoError(t, err)
	item, err := b.Data.CreateItem(ctx, contracts.UserPoolAuth(session.Token), todo.CreateItemInput{Name: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
}

func TestNewBackend_InvalidConfig(t *testing.T) {
	cfg := localConfig(t, "dynamo")

	_, err := NewBackend(context.Background(), cfg, logging.Default())
	assert.ErrorContains(t, err, "PAGE_STORE")
}

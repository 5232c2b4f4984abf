package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/backend/internal/domain"
)

func openTestSQLite(t *testing.T) *SQLiteProvider {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	provider, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestSQLiteProvider_EmptyCatalog(t *testing.T) {
	provider := openTestSQLite(t)

	products, err := provider.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSQLiteProvider_SaveLoad(t *testing.T) {
	ctx := context.Background()
	provider := openTestSQLite(t)

	products := []domain.Product{
		{ID: "2", Name: "Widget B", Price: domain.PriceOf(50), Brand: "Bolt"},
		{ID: "1", Name: "Widget A", Description: "no price", Category: "Tools", URL: "https://example.com/1", Image: "a.png"},
		{ID: "3", Name: "Freebie", Price: domain.PriceOf(0)},
	}
	require.NoError(t, provider.Save(ctx, products))

	loaded, err := provider.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, products, loaded)
	assert.Nil(t, loaded[1].Price)
}

func TestSQLiteProvider_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	provider := openTestSQLite(t)

	require.NoError(t, provider.Save(ctx, []domain.Product{{ID: "old", Name: "Old"}}))
	require.NoError(t, provider.Save(ctx, []domain.Product{{ID: "new", Name: "New"}}))

	loaded, err := provider.Load(ctx)

	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].ID)
}

func TestSQLiteProvider_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, []domain.Product{{ID: "1", Name: "Lamp"}}))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Product{{ID: "1", Name: "Lamp"}}, loaded)
	assert.Equal(t, "sqlite:"+path, second.Name())
}

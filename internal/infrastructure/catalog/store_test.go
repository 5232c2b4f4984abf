package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplens/backend/internal/domain"
)

// stubProvider returns fixed products or an error
type stubProvider struct {
	name     string
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Load(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubProvider) set(products []domain.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.err = err
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestStore_SnapshotBeforeRefresh(t *testing.T) {
	store := NewStore([]domain.CatalogProvider{&stubProvider{name: "a"}}, zerolog.Nop())

	_, _, err := store.Snapshot()
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, ok := store.LoadedAt()
	assert.False(t, ok)
}

func TestStore_RefreshWithoutProviders(t *testing.T) {
	store := NewStore(nil, zerolog.Nop())

	_, err := store.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestStore_Refresh(t *testing.T) {
	ctx := context.Background()
	primary := &stubProvider{name: "primary", products: []domain.Product{
		{ID: "2", Name: "Widget B", Price: domain.PriceOf(50)},
		{ID: "1", Name: "Widget A"},
	}}
	overrides := &stubProvider{name: "overrides", products: []domain.Product{
		{ID: "1", Price: domain.PriceOf(99)},
	}}
	store := NewStore([]domain.CatalogProvider{primary, overrides}, zerolog.Nop())

	stats, err := store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, uint64(1), stats.Version)
	assert.Equal(t, []SourceStats{{Name: "primary", Records: 2}, {Name: "overrides", Records: 1}}, stats.Sources)

	products, version, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	require.Len(t, products, 2)
	assert.Equal(t, "Widget A", products[0].Name)
	assert.Equal(t, 99.0, *products[0].Price)

	_, ok := store.LoadedAt()
	assert.True(t, ok)

	stats, err = store.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Version)
}

func TestStore_RefreshFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	good := &stubProvider{name: "good", products: []domain.Product{{ID: "1", Name: "Lamp"}}}
	flaky := &stubProvider{name: "flaky", products: []domain.Product{{ID: "2", Name: "Kettle"}}}
	store := NewStore([]domain.CatalogProvider{good, flaky}, zerolog.Nop())

	_, err := store.Refresh(ctx)
	require.NoError(t, err)

	flaky.set(nil, errors.New("connection reset"))
	_, err = store.Refresh(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky")

	products, version, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Len(t, products, 2)
}

func TestStore_Run(t *testing.T) {
	provider := &stubProvider{name: "a", products: []domain.Product{{ID: "1", Name: "Lamp"}}}
	store := NewStore([]domain.CatalogProvider{provider}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, version, err := store.Snapshot()
		return err == nil && version >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.GreaterOrEqual(t, provider.callCount(), 2)
}

func TestStore_RunWithoutInterval(t *testing.T) {
	store := NewStore([]domain.CatalogProvider{&stubProvider{name: "a"}}, zerolog.Nop())

	store.Run(context.Background(), 0)

	_, _, err := store.Snapshot()
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestMergeByID(t *testing.T) {
	t.Run("later sources override non-empty fields", func(t *testing.T) {
		base := []domain.Product{{ID: "1", Name: "Lamp", Description: "desk lamp", Brand: "Acme", Price: domain.PriceOf(20)}}
		update := []domain.Product{{ID: "1", Brand: "Bolt", Category: "Home"}}

		merged := MergeByID(base, update)

		require.Len(t, merged, 1)
		assert.Equal(t, domain.Product{
			ID: "1", Name: "Lamp", Description: "desk lamp", Brand: "Bolt", Category: "Home", Price: domain.PriceOf(20),
		}, merged[0])
	})

	t.Run("orders by case-folded name then raw name then id", func(t *testing.T) {
		merged := MergeByID([]domain.Product{
			{ID: "4", Name: "banana"},
			{ID: "3", Name: "apple"},
			{ID: "2", Name: "Apple"},
			{ID: "1", Name: "apple"},
		})

		var ids []string
		for _, p := range merged {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"2", "1", "3", "4"}, ids)
	})

	t.Run("drops records without id", func(t *testing.T) {
		merged := MergeByID([]domain.Product{{Name: "orphan"}, {ID: "1", Name: "Lamp"}})

		require.Len(t, merged, 1)
		assert.Equal(t, "1", merged[0].ID)
	})

	t.Run("duplicate ids in one source collapse", func(t *testing.T) {
		merged := MergeByID([]domain.Product{{ID: "1", Name: "First"}, {ID: "1", Name: "Second"}})

		require.Len(t, merged, 1)
		assert.Equal(t, "Second", merged[0].Name)
	})

	t.Run("no input", func(t *testing.T) {
		merged := MergeByID()
		assert.NotNil(t, merged)
		assert.Empty(t, merged)
	})
}

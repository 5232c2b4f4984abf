package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shoplens/backend/internal/domain"
)

// snapshot is an immutable catalog version
type snapshot struct {
	products []domain.Product
	version  uint64
	loadedAt time.Time
}

// SourceStats reports how many records one provider returned
type SourceStats struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// RefreshStats summarizes one successful refresh
type RefreshStats struct {
	Products int           `json:"products"`
	Version  uint64        `json:"version"`
	Sources  []SourceStats `json:"sources"`
	Duration time.Duration `json:"duration"`
}

// Store holds the current catalog snapshot and rebuilds it from its providers.
// Readers always see a complete snapshot.
type Store struct {
	providers []domain.CatalogProvider
	current   atomic.Pointer[snapshot]
	refreshMu sync.Mutex
	logger    zerolog.Logger
}

// NewStore creates a store over providers; nothing is loaded until Refresh
func NewStore(providers []domain.CatalogProvider, logger zerolog.Logger) *Store {
	return &Store{
		providers: providers,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

// Snapshot returns the current products and their version
func (s *Store) Snapshot() ([]domain.Product, uint64, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, 0, domain.ErrCatalogUnavailable
	}
	return snap.products, snap.version, nil
}

// LoadedAt reports when the current snapshot was built
func (s *Store) LoadedAt() (time.Time, bool) {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.loadedAt, true
}

// Refresh loads every provider concurrently and swaps in the merged catalog.
// If any provider fails the previous snapshot is kept.
func (s *Store) Refresh(ctx context.Context) (RefreshStats, error) {
	if len(s.providers) == 0 {
		return RefreshStats{}, fmt.Errorf("%w: no catalog providers configured", domain.ErrCatalogUnavailable)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	results := make([][]domain.Product, len(s.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range s.providers {
		g.Go(func() error {
			products, err := provider.Load(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", provider.Name(), err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("catalog refresh failed, keeping previous snapshot")
		return RefreshStats{}, err
	}

	merged := MergeByID(results...)

	var version uint64 = 1
	if prev := s.current.Load(); prev != nil {
		version = prev.version + 1
	}
	s.current.Store(&snapshot{products: merged, version: version, loadedAt: time.Now()})

	stats := RefreshStats{
		Products: len(merged),
		Version:  version,
		Sources:  make([]SourceStats, len(s.providers)),
		Duration: time.Since(start),
	}
	for i, provider := range s.providers {
		stats.Sources[i] = SourceStats{Name: provider.Name(), Records: len(results[i])}
	}

	s.logger.Info().
		Int("products", stats.Products).
		Uint64("version", version).
		Dur("duration", stats.Duration).
		Msg("catalog refreshed")
	return stats, nil
}

// Run refreshes on every tick until ctx is canceled. Failures are logged and retried on the next tick.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn().Err(err).Dur("retry_in", interval).Msg("scheduled catalog refresh failed")
			}
		}
	}
}

// MergeByID combines sources into one catalog keyed by product ID. A later
// record's non-empty fields override an earlier one's. Records without an ID
// are dropped. The result is ordered by name.
func MergeByID(sources ...[]domain.Product) []domain.Product {
	byID := make(map[string]int)
	var merged []domain.Product

	for _, products := range sources {
		for _, product := range products {
			if product.ID == "" {
				continue
			}
			if i, ok := byID[product.ID]; ok {
				merged[i] = overlay(merged[i], product)
				continue
			}
			byID[product.ID] = len(merged)
			merged = append(merged, product)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
			return la < lb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	if merged == nil {
		return []domain.Product{}
	}
	return merged
}

// overlay copies the non-empty fields of next over base
func overlay(base, next domain.Product) domain.Product {
	if next.Name != "" {
		base.Name = next.Name
	}
	if next.Description != "" {
		base.Description = next.Description
	}
	if next.Price != nil {
		base.Price = next.Price
	}
	if next.Brand != "" {
		base.Brand = next.Brand
	}
	if next.Category != "" {
		base.Category = next.Category
	}
	if next.URL != "" {
		base.URL = next.URL
	}
	if next.Image != "" {
		base.Image = next.Image
	}
	return base
}

package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
)

// Store is an in-memory adapter implementing the curation ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu       sync.RWMutex
	packages map[string]entities.DataPackage
	sequence uint64
	logger   *slog.Logger
}

func NewStore(seedPackages []entities.DataPackage, logger *slog.Logger) *Store {
	packageMap := make(map[string]entities.DataPackage, len(seedPackages))
	for _, pkg := range seedPackages {
		packageMap[pkg.PackageID] = pkg
	}
	return &Store{
		packages: packageMap,
		logger:   application.ResolveLogger(logger),
	}
}

func (s *Store) CreatePackage(_ context.Context, pkg entities.DataPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.packages[pkg.PackageID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.packages[pkg.PackageID] = pkg
	return nil
}

func (s *Store) GetPackage(_ context.Context, packageID string) (entities.DataPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pkg, found := s.packages[packageID]
	if !found {
		return entities.DataPackage{}, domainerrors.ErrPackageNotFound
	}
	return pkg, nil
}

func (s *Store) ListPackagesByDataset(_ context.Context, datasetID string) ([]entities.DataPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.DataPackage, 0)
	for _, pkg := range s.packages {
		if pkg.SourceDatasetID == datasetID {
			items = append(items, pkg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].PackageID < items[j].PackageID
	})
	return items, nil
}

func (s *Store) HasPackages(_ context.Context, datasetID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pkg := range s.packages {
		if pkg.SourceDatasetID == datasetID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SetSaleReadiness(
	_ context.Context,
	packageID string,
	forSale bool,
	priceUSD float64,
	at time.Time,
) (entities.DataPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pkg, found := s.packages[packageID]
	if !found {
		return entities.DataPackage{}, domainerrors.ErrPackageNotFound
	}
	if !pkg.IsAvailable {
		return entities.DataPackage{}, domainerrors.ErrPackageUnavailable
	}
	pkg.IsForSale = forSale
	pkg.PriceUSD = priceUSD
	pkg.UpdatedAt = at.UTC()
	s.packages[packageID] = pkg
	return pkg, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("pkg-%d", value), nil
}

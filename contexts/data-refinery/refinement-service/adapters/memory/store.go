package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

// Store is an in-memory adapter implementing the refinement ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu         sync.RWMutex
	datasets   map[string]entities.Dataset
	items      map[string][]entities.Item
	records    map[string][]entities.RefinementRecord
	ingestions map[string][]ports.IngestionRecord
	sequence   uint64
	logger     *slog.Logger
}

// NewStore seeds dataset state and initializes the run-history stores.
func NewStore(seedDatasets []entities.Dataset, logger *slog.Logger) *Store {
	datasetMap := make(map[string]entities.Dataset, len(seedDatasets))
	for _, dataset := range seedDatasets {
		datasetMap[dataset.DatasetID] = dataset
	}
	return &Store{
		datasets:   datasetMap,
		items:      make(map[string][]entities.Item),
		records:    make(map[string][]entities.RefinementRecord),
		ingestions: make(map[string][]ports.IngestionRecord),
		logger:     application.ResolveLogger(logger),
	}
}

func (s *Store) CreateDataset(_ context.Context, dataset entities.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[dataset.DatasetID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.datasets[dataset.DatasetID] = dataset
	return nil
}

func (s *Store) GetDataset(_ context.Context, datasetID string) (entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return entities.Dataset{}, domainerrors.ErrDatasetNotFound
	}
	return dataset, nil
}

func (s *Store) ListDatasetsByOwner(_ context.Context, ownerID string) ([]entities.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []entities.Dataset
	for _, dataset := range s.datasets {
		if dataset.OwnerID == ownerID {
			owned = append(owned, dataset)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].DatasetID < owned[j].DatasetID
		}
		return owned[i].CreatedAt.Before(owned[j].CreatedAt)
	})
	return owned, nil
}

func (s *Store) IngestItems(
	_ context.Context,
	datasetID string,
	items []entities.Item,
	record ports.IngestionRecord,
	at time.Time,
) (entities.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return entities.Dataset{}, domainerrors.ErrDatasetNotFound
	}
	if dataset.Tombstoned {
		return entities.Dataset{}, domainerrors.ErrDatasetTombstoned
	}
	if dataset.Stage != entities.StageIngested {
		return entities.Dataset{}, domainerrors.ErrStageConflict
	}

	s.items[datasetID] = append(s.items[datasetID], items...)
	s.ingestions[datasetID] = append(s.ingestions[datasetID], record)

	dataset.ItemCount += len(items)
	for _, item := range items {
		dataset.TotalSizeBytes += item.SizeBytes
	}
	dataset.Stage = entities.StageStored
	dataset.UpdatedAt = at.UTC()
	s.datasets[datasetID] = dataset
	return dataset, nil
}

func (s *Store) BeginRefinement(_ context.Context, datasetID string, at time.Time) (entities.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return entities.Dataset{}, domainerrors.ErrDatasetNotFound
	}
	if dataset.Tombstoned {
		return entities.Dataset{}, domainerrors.ErrDatasetTombstoned
	}
	if dataset.Stage == entities.StageRefining {
		return entities.Dataset{}, domainerrors.ErrRefinementInFlight
	}
	if !dataset.Refinable() {
		return entities.Dataset{}, domainerrors.ErrStageConflict
	}

	dataset.Stage = entities.StageRefining
	dataset.UpdatedAt = at.UTC()
	s.datasets[datasetID] = dataset
	return dataset, nil
}

func (s *Store) CompleteRefinement(
	_ context.Context,
	datasetID string,
	record entities.RefinementRecord,
	outcomes []ports.ItemOutcome,
	at time.Time,
) (entities.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return entities.Dataset{}, domainerrors.ErrDatasetNotFound
	}
	if dataset.Stage != entities.StageRefining {
		return entities.Dataset{}, domainerrors.ErrStageConflict
	}

	outcomeByItem := make(map[string]ports.ItemOutcome, len(outcomes))
	for _, outcome := range outcomes {
		outcomeByItem[outcome.ItemID] = outcome
	}
	stored := s.items[datasetID]
	for i, item := range stored {
		outcome, applies := outcomeByItem[item.ItemID]
		if !applies {
			continue
		}
		item.Status = outcome.Status
		item.RejectionReason = outcome.Reason
		item.Metrics = outcome.Metrics
		stored[i] = item
	}
	s.items[datasetID] = stored

	s.records[datasetID] = append(s.records[datasetID], record)

	dataset.Stage = entities.StageRefined
	dataset.QualityScore = record.OverallQuality
	dataset.UpdatedAt = at.UTC()
	s.datasets[datasetID] = dataset
	return dataset, nil
}

func (s *Store) FailRefinement(
	_ context.Context,
	datasetID string,
	record entities.RefinementRecord,
	at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return domainerrors.ErrDatasetNotFound
	}
	if dataset.Stage != entities.StageRefining {
		return domainerrors.ErrStageConflict
	}

	s.records[datasetID] = append(s.records[datasetID], record)
	dataset.Stage = entities.StageFailed
	dataset.UpdatedAt = at.UTC()
	s.datasets[datasetID] = dataset
	return nil
}

func (s *Store) AdvanceStage(
	_ context.Context,
	datasetID string,
	from entities.DatasetStage,
	to entities.DatasetStage,
	at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return domainerrors.ErrDatasetNotFound
	}
	if dataset.Tombstoned {
		return domainerrors.ErrDatasetTombstoned
	}
	if dataset.Stage != from || !from.CanTransitionTo(to) {
		return domainerrors.ErrStageConflict
	}

	dataset.Stage = to
	dataset.UpdatedAt = at.UTC()
	s.datasets[datasetID] = dataset
	return nil
}

func (s *Store) DeleteDataset(_ context.Context, datasetID string, referenced bool, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataset, ok := s.datasets[datasetID]
	if !ok {
		return false, domainerrors.ErrDatasetNotFound
	}

	if referenced {
		dataset.Tombstoned = true
		dataset.UpdatedAt = at.UTC()
		s.datasets[datasetID] = dataset
		return true, nil
	}

	delete(s.datasets, datasetID)
	delete(s.items, datasetID)
	delete(s.records, datasetID)
	delete(s.ingestions, datasetID)
	return false, nil
}

func (s *Store) FailStaleRefinements(_ context.Context, deadline time.Time, reason string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failed := 0
	for id, dataset := range s.datasets {
		if dataset.Stage != entities.StageRefining {
			continue
		}
		if !dataset.UpdatedAt.Before(deadline.UTC()) {
			continue
		}
		dataset.Stage = entities.StageFailed
		dataset.UpdatedAt = at.UTC()
		s.datasets[id] = dataset
		s.records[id] = append(s.records[id], entities.RefinementRecord{
			RecordID:      s.nextID(),
			DatasetID:     id,
			FailureReason: reason,
			StartedAt:     at.UTC(),
			CompletedAt:   at.UTC(),
		})
		failed++
	}
	return failed, nil
}

func (s *Store) ListItems(_ context.Context, datasetID string) ([]entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.datasets[datasetID]; !ok {
		return nil, domainerrors.ErrDatasetNotFound
	}
	stored := s.items[datasetID]
	items := make([]entities.Item, len(stored))
	copy(items, stored)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (s *Store) ListPassedItems(ctx context.Context, datasetID string) ([]entities.Item, error) {
	items, err := s.ListItems(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	passed := make([]entities.Item, 0, len(items))
	for _, item := range items {
		if item.Status == entities.ItemStatusPassed {
			passed = append(passed, item)
		}
	}
	return passed, nil
}

func (s *Store) ListRecords(_ context.Context, datasetID string) ([]entities.RefinementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.records[datasetID]
	records := make([]entities.RefinementRecord, len(stored))
	copy(records, stored)
	return records, nil
}

func (s *Store) LatestRecord(_ context.Context, datasetID string) (entities.RefinementRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.records[datasetID]
	if len(stored) == 0 {
		return entities.RefinementRecord{}, false, nil
	}
	return stored[len(stored)-1], true, nil
}

func (s *Store) ListIngestions(_ context.Context, datasetID string) ([]ports.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.ingestions[datasetID]
	records := make([]ports.IngestionRecord, len(stored))
	copy(records, stored)
	return records, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return s.nextID(), nil
}

func (s *Store) nextID() string {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("ref-%d", value)
}

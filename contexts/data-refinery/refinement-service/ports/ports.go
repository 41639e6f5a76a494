package ports

import (
	"context"
	"time"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

// IngestionRecord captures one ingestion event for a dataset: how data entered
// the system and what the collaborator's validation produced.
type IngestionRecord struct {
	RecordID         string
	DatasetID        string
	Method           string
	ItemsReceived    int
	ItemsAccepted    int
	ValidationErrors []string
	CreatedAt        time.Time
}

// ItemOutcome is the per-item verdict of a refinement run, applied to item
// rows together with the appended RefinementRecord.
type ItemOutcome struct {
	ItemID  string
	Status  entities.ItemStatus
	Reason  entities.RejectionReason
	Metrics entities.ItemMetrics
}

// DatasetRepository owns dataset persistence and the transaction boundaries of
// every stage transition. Stage-moving writes are check-and-set: the write
// succeeds only when the dataset is still in the expected source stage.
type DatasetRepository interface {
	CreateDataset(ctx context.Context, dataset entities.Dataset) error
	GetDataset(ctx context.Context, datasetID string) (entities.Dataset, error)
	ListDatasetsByOwner(ctx context.Context, ownerID string) ([]entities.Dataset, error)
	// IngestItems atomically appends items, updates counts, records the
	// ingestion event, and advances ingested -> stored.
	IngestItems(ctx context.Context, datasetID string, items []entities.Item, record IngestionRecord, at time.Time) (entities.Dataset, error)
	// BeginRefinement moves a refinable dataset into stage refining. It is the
	// per-dataset mutual-exclusion gate: a dataset already refining yields
	// ErrRefinementInFlight, never a queued run.
	BeginRefinement(ctx context.Context, datasetID string, at time.Time) (entities.Dataset, error)
	// CompleteRefinement atomically appends the record, applies item outcomes,
	// overwrites the dataset quality score, and advances refining -> refined.
	CompleteRefinement(ctx context.Context, datasetID string, record entities.RefinementRecord, outcomes []ItemOutcome, at time.Time) (entities.Dataset, error)
	// FailRefinement appends the partial record and moves refining -> failed.
	FailRefinement(ctx context.Context, datasetID string, record entities.RefinementRecord, at time.Time) error
	// AdvanceStage applies a forward-only transition for out-of-pipeline
	// actors (curation, marketplace). ErrStageConflict when the dataset is not
	// in the expected source stage.
	AdvanceStage(ctx context.Context, datasetID string, from, to entities.DatasetStage, at time.Time) error
	// DeleteDataset removes an unreferenced dataset or tombstones a dataset
	// still referenced by a package. Reports whether it was tombstoned.
	DeleteDataset(ctx context.Context, datasetID string, referenced bool, at time.Time) (bool, error)
	// FailStaleRefinements sweeps datasets stuck in stage refining since
	// before the deadline (crash recovery) into stage failed.
	FailStaleRefinements(ctx context.Context, deadline time.Time, reason string, at time.Time) (int, error)
}

type ItemRepository interface {
	// ListItems returns all dataset items in ingestion (position) order.
	ListItems(ctx context.Context, datasetID string) ([]entities.Item, error)
	// ListPassedItems returns items marked passed by the latest run, in
	// ingestion order.
	ListPassedItems(ctx context.Context, datasetID string) ([]entities.Item, error)
}

type RefinementRecordRepository interface {
	// ListRecords returns the append-only run history, oldest first.
	ListRecords(ctx context.Context, datasetID string) ([]entities.RefinementRecord, error)
	LatestRecord(ctx context.Context, datasetID string) (entities.RefinementRecord, bool, error)
}

type IngestionRecordRepository interface {
	ListIngestions(ctx context.Context, datasetID string) ([]IngestionRecord, error)
}

// QualityScorer rates an item set on the five quality dimensions. Strategies
// must be deterministic for identical input so reruns are reproducible.
type QualityScorer interface {
	ScoreItems(items []entities.Item) entities.ScoringResult
}

// SimilarityStrategy scores pairwise similarity in [0,1] for the
// near-duplicate pass. The default is token-set Jaccard; an ML-backed
// implementation can be substituted without touching the orchestrator.
type SimilarityStrategy interface {
	Similarity(a, b entities.Item) float64
}

// Classifier assigns probabilistic labels per dimension. A single item
// failure marks the item unclassified and never aborts the run.
type Classifier interface {
	ClassifyItems(items []entities.Item) entities.ClassificationResult
}

// PackageReferenceChecker reports whether any curated package references a
// dataset. Wired from the curation module at composition time.
type PackageReferenceChecker interface {
	HasPackages(ctx context.Context, datasetID string) (bool, error)
}

// Clock allows deterministic testing of timestamps and stale-run sweeps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts dataset/item/record identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

package ports

import (
	"context"
	"time"

	"refinery/contexts/data-refinery/curation-service/domain/entities"
)

// PackageRepository owns curated package persistence. Packages are written
// once; SetSaleReadiness is the only permitted update.
type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg entities.DataPackage) error
	GetPackage(ctx context.Context, packageID string) (entities.DataPackage, error)
	ListPackagesByDataset(ctx context.Context, datasetID string) ([]entities.DataPackage, error)
	// HasPackages reports whether any package references the dataset. Serves
	// the refinement module's delete/tombstone decision.
	HasPackages(ctx context.Context, datasetID string) (bool, error)
	// SetSaleReadiness flips the sale flag and price on an available package.
	SetSaleReadiness(ctx context.Context, packageID string, forSale bool, priceUSD float64, at time.Time) (entities.DataPackage, error)
}

// DatasetSummary is the curation-side view of a source dataset.
type DatasetSummary struct {
	DatasetID    string
	Stage        string
	Tombstoned   bool
	QualityScore float64
	IngestedAt   time.Time
}

// RunSummary is the curation-side view of one refinement run, carried into
// package provenance.
type RunSummary struct {
	RecordID       string
	OverallQuality float64
	MetricsDigest  string
	CompletedAt    time.Time
	Succeeded      bool
}

// PassedItem is an item that survived the latest refinement run, in the shape
// the manifest needs.
type PassedItem struct {
	ItemID         string
	Name           string
	ContentHash    string
	SizeBytes      int64
	Format         string
	Position       int
	OverallQuality float64
	Scores         map[string]float64
}

// DatasetGateway reads source dataset state from the refinement module.
// Implementations translate refinement errors into this module's domain
// errors.
type DatasetGateway interface {
	GetDataset(ctx context.Context, datasetID string) (DatasetSummary, error)
	ListRuns(ctx context.Context, datasetID string) ([]RunSummary, error)
	ListPassedItems(ctx context.Context, datasetID string) ([]PassedItem, error)
}

// DatasetLifecycle advances the source dataset's stage in the refinement
// module. MarkPackaged is a check-and-set move refined -> packaged: exactly
// one concurrent packaging attempt wins, the rest get ErrDatasetNotRefined.
type DatasetLifecycle interface {
	MarkPackaged(ctx context.Context, datasetID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

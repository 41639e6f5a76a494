package commands

import (
	"context"
	"log/slog"
	"sort"
	"time"

	application "refinery/contexts/data-refinery/curation-service/application"
	"refinery/contexts/data-refinery/curation-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	"refinery/contexts/data-refinery/curation-service/ports"
)

type CreatePackageCommand struct {
	DatasetID   string
	Name        string
	Description string
	Version     string
	LicenseType string
}

type CreatePackageResult struct {
	Package entities.DataPackage
}

// CreatePackageUseCase cuts an immutable package from a refined dataset: the
// passed items of the latest run become the manifest, the run history becomes
// the provenance chain, and the dataset advances refined -> packaged.
type CreatePackageUseCase struct {
	Packages    ports.PackageRepository
	Datasets    ports.DatasetGateway
	Lifecycle   ports.DatasetLifecycle
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreatePackageUseCase) Execute(ctx context.Context, cmd CreatePackageCommand) (CreatePackageResult, error) {
	logger := application.ResolveLogger(u.Logger)

	pkg := entities.DataPackage{
		SourceDatasetID: cmd.DatasetID,
		Name:            cmd.Name,
		Description:     cmd.Description,
		Version:         cmd.Version,
		LicenseType:     entities.LicenseType(cmd.LicenseType),
	}
	if !pkg.ValidateBasics() {
		return CreatePackageResult{}, domainerrors.ErrInvalidPackageRequest
	}

	summary, err := u.Datasets.GetDataset(ctx, cmd.DatasetID)
	if err != nil {
		return CreatePackageResult{}, err
	}
	if summary.Tombstoned {
		return CreatePackageResult{}, domainerrors.ErrDatasetUnavailable
	}

	runs, err := u.Datasets.ListRuns(ctx, cmd.DatasetID)
	if err != nil {
		return CreatePackageResult{}, err
	}
	latest, ok := latestSucceededRun(runs)
	if !ok {
		return CreatePackageResult{}, domainerrors.ErrDatasetNotRefined
	}

	items, err := u.Datasets.ListPassedItems(ctx, cmd.DatasetID)
	if err != nil {
		return CreatePackageResult{}, err
	}
	if len(items) == 0 {
		return CreatePackageResult{}, domainerrors.ErrNoPassedItems
	}

	packageID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreatePackageResult{}, err
	}

	// Advance the stage first. The check-and-set transition is the
	// concurrency gate: a second packaging attempt loses here and no
	// duplicate package row is ever written.
	if err := u.Lifecycle.MarkPackaged(ctx, cmd.DatasetID); err != nil {
		logger.Error("package stage transition failed",
			"event", "create_package_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"error", err.Error(),
		)
		return CreatePackageResult{}, err
	}

	now := u.Clock.Now().UTC()
	manifest := buildManifest(items)

	pkg.PackageID = packageID
	pkg.ItemCount = len(manifest)
	pkg.SizeBytes = totalSize(manifest)
	pkg.QualityScore = latest.OverallQuality
	pkg.Manifest = manifest
	pkg.Provenance = buildProvenance(summary, runs, manifest, now)
	pkg.IsAvailable = true
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	if err := u.Packages.CreatePackage(ctx, pkg); err != nil {
		logger.Error("package write failed after stage transition",
			"event", "create_package_failed",
			"module", "data-refinery/curation-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"package_id", packageID,
			"error", err.Error(),
		)
		return CreatePackageResult{}, err
	}

	logger.Info("package created",
		"event", "package_created",
		"module", "data-refinery/curation-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"package_id", packageID,
		"item_count", pkg.ItemCount,
	)
	return CreatePackageResult{Package: pkg}, nil
}

func latestSucceededRun(runs []ports.RunSummary) (ports.RunSummary, bool) {
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Succeeded {
			return runs[i], true
		}
	}
	return ports.RunSummary{}, false
}

func buildManifest(items []ports.PassedItem) []entities.ManifestEntry {
	sorted := make([]ports.PassedItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	manifest := make([]entities.ManifestEntry, 0, len(sorted))
	for _, item := range sorted {
		manifest = append(manifest, entities.ManifestEntry{
			ItemID:         item.ItemID,
			Name:           item.Name,
			ContentHash:    item.ContentHash,
			SizeBytes:      item.SizeBytes,
			Format:         item.Format,
			OverallQuality: item.OverallQuality,
			Scores:         item.Scores,
		})
	}
	return manifest
}

func totalSize(manifest []entities.ManifestEntry) int64 {
	var total int64
	for _, entry := range manifest {
		total += entry.SizeBytes
	}
	return total
}

// buildProvenance writes the full lineage: one ingestion entry, one entry per
// historical refinement run carrying its metrics digest, and the packaging
// entry sealed with the manifest digest.
func buildProvenance(
	summary ports.DatasetSummary,
	runs []ports.RunSummary,
	manifest []entities.ManifestEntry,
	packagedAt time.Time,
) []entities.ProvenanceEntry {
	entries := make([]entities.ProvenanceEntry, 0, len(runs)+2)
	entries = append(entries, entities.ProvenanceEntry{
		Actor:     entities.ActorIngestion,
		Operation: entities.OperationIngest,
		Timestamp: summary.IngestedAt.UTC(),
	})
	for _, run := range runs {
		entries = append(entries, entities.ProvenanceEntry{
			Actor:         entities.ActorRefinement,
			Operation:     entities.OperationRefine,
			Timestamp:     run.CompletedAt.UTC(),
			MetricsDigest: run.MetricsDigest,
		})
	}
	entries = append(entries, entities.ProvenanceEntry{
		Actor:         entities.ActorCuration,
		Operation:     entities.OperationPackage,
		Timestamp:     packagedAt,
		MetricsDigest: entities.ManifestDigest(manifest),
	})
	return entries
}

package bootstrap

import (
	"context"
	"errors"
	"time"

	curationcommands "refinery/contexts/data-refinery/curation-service/application/commands"
	curationerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	curationports "refinery/contexts/data-refinery/curation-service/ports"
	marketplaceerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	marketplaceports "refinery/contexts/data-refinery/marketplace-service/ports"
	refinemententities "refinery/contexts/data-refinery/refinement-service/domain/entities"
	refinementerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	refinementports "refinery/contexts/data-refinery/refinement-service/ports"
)

// The bridges below are the only code that crosses service boundaries. Each
// one adapts a provider module's ports to a consumer module's gateway
// interface and translates domain errors so consumers never import a foreign
// error set.

type curationDatasetGateway struct {
	datasets refinementports.DatasetRepository
	items    refinementports.ItemRepository
	records  refinementports.RefinementRecordRepository
}

var _ curationports.DatasetGateway = curationDatasetGateway{}

func (g curationDatasetGateway) GetDataset(ctx context.Context, datasetID string) (curationports.DatasetSummary, error) {
	dataset, err := g.datasets.GetDataset(ctx, datasetID)
	if err != nil {
		if errors.Is(err, refinementerrors.ErrDatasetNotFound) {
			return curationports.DatasetSummary{}, curationerrors.ErrDatasetNotFound
		}
		return curationports.DatasetSummary{}, err
	}
	return curationports.DatasetSummary{
		DatasetID:    dataset.DatasetID,
		Stage:        string(dataset.Stage),
		Tombstoned:   dataset.Tombstoned,
		QualityScore: dataset.QualityScore,
		IngestedAt:   dataset.CreatedAt,
	}, nil
}

func (g curationDatasetGateway) ListRuns(ctx context.Context, datasetID string) ([]curationports.RunSummary, error) {
	records, err := g.records.ListRecords(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	runs := make([]curationports.RunSummary, 0, len(records))
	for _, record := range records {
		runs = append(runs, curationports.RunSummary{
			RecordID:       record.RecordID,
			OverallQuality: record.OverallQuality,
			MetricsDigest:  record.MetricsDigest,
			CompletedAt:    record.CompletedAt,
			Succeeded:      record.Succeeded(),
		})
	}
	return runs, nil
}

func (g curationDatasetGateway) ListPassedItems(ctx context.Context, datasetID string) ([]curationports.PassedItem, error) {
	items, err := g.items.ListPassedItems(ctx, datasetID)
	if err != nil {
		if errors.Is(err, refinementerrors.ErrDatasetNotFound) {
			return nil, curationerrors.ErrDatasetNotFound
		}
		return nil, err
	}
	passed := make([]curationports.PassedItem, 0, len(items))
	for _, item := range items {
		passed = append(passed, curationports.PassedItem{
			ItemID:         item.ItemID,
			Name:           item.Name,
			ContentHash:    item.ContentHash,
			SizeBytes:      item.SizeBytes,
			Format:         item.Format,
			Position:       item.Position,
			OverallQuality: item.Metrics.OverallQuality,
			Scores: map[string]float64{
				"completeness":     item.Metrics.Scores.Completeness,
				"clarity":          item.Metrics.Scores.Clarity,
				"relevance":        item.Metrics.Scores.Relevance,
				"format_validity":  item.Metrics.Scores.FormatValidity,
				"metadata_quality": item.Metrics.Scores.MetadataQuality,
			},
		})
	}
	return passed, nil
}

type curationDatasetLifecycle struct {
	datasets refinementports.DatasetRepository
	clock    refinementports.Clock
}

var _ curationports.DatasetLifecycle = curationDatasetLifecycle{}

func (l curationDatasetLifecycle) MarkPackaged(ctx context.Context, datasetID string) error {
	err := l.datasets.AdvanceStage(ctx, datasetID,
		refinemententities.StageRefined, refinemententities.StagePackaged, l.clock.Now().UTC())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, refinementerrors.ErrDatasetNotFound):
		return curationerrors.ErrDatasetNotFound
	case errors.Is(err, refinementerrors.ErrDatasetTombstoned):
		return curationerrors.ErrDatasetUnavailable
	case errors.Is(err, refinementerrors.ErrStageConflict):
		return curationerrors.ErrDatasetNotRefined
	default:
		return err
	}
}

type marketplacePackageCatalog struct {
	packages         curationports.PackageRepository
	setSaleReadiness curationcommands.SetSaleReadinessUseCase
}

var _ marketplaceports.PackageCatalog = marketplacePackageCatalog{}

func (c marketplacePackageCatalog) GetPackage(ctx context.Context, packageID string) (marketplaceports.PackageSummary, error) {
	pkg, err := c.packages.GetPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, curationerrors.ErrPackageNotFound) {
			return marketplaceports.PackageSummary{}, marketplaceerrors.ErrPackageUnavailable
		}
		return marketplaceports.PackageSummary{}, err
	}
	return marketplaceports.PackageSummary{
		PackageID:       pkg.PackageID,
		SourceDatasetID: pkg.SourceDatasetID,
		Name:            pkg.Name,
		QualityScore:    pkg.QualityScore,
		ItemCount:       pkg.ItemCount,
		SizeBytes:       pkg.SizeBytes,
		Available:       pkg.IsAvailable,
	}, nil
}

func (c marketplacePackageCatalog) MarkForSale(ctx context.Context, packageID string, priceUSD float64) error {
	_, err := c.setSaleReadiness.Execute(ctx, curationcommands.SetSaleReadinessCommand{
		PackageID: packageID,
		IsForSale: true,
		PriceUSD:  priceUSD,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, curationerrors.ErrPackageNotFound),
		errors.Is(err, curationerrors.ErrPackageUnavailable):
		return marketplaceerrors.ErrPackageUnavailable
	case errors.Is(err, curationerrors.ErrInvalidPrice):
		return marketplaceerrors.ErrInvalidListingRequest
	default:
		return err
	}
}

type marketplaceDatasetLifecycle struct {
	datasets refinementports.DatasetRepository
	clock    refinementports.Clock
}

var _ marketplaceports.DatasetLifecycle = marketplaceDatasetLifecycle{}

func (l marketplaceDatasetLifecycle) MarkListed(ctx context.Context, datasetID string) error {
	return l.advance(ctx, datasetID,
		refinemententities.StagePackaged, refinemententities.StageListed,
		refinemententities.StageListed, refinemententities.StageSold)
}

func (l marketplaceDatasetLifecycle) MarkSold(ctx context.Context, datasetID string) error {
	return l.advance(ctx, datasetID,
		refinemententities.StageListed, refinemententities.StageSold,
		refinemententities.StageSold)
}

// advance applies a forward stage move and treats a dataset already at (or
// past) the target as success, so repeated publishes and repeat sales stay
// idempotent.
func (l marketplaceDatasetLifecycle) advance(
	ctx context.Context,
	datasetID string,
	from, to refinemententities.DatasetStage,
	reached ...refinemententities.DatasetStage,
) error {
	err := l.datasets.AdvanceStage(ctx, datasetID, from, to, l.clock.Now().UTC())
	if err == nil || !errors.Is(err, refinementerrors.ErrStageConflict) {
		return err
	}
	dataset, getErr := l.datasets.GetDataset(ctx, datasetID)
	if getErr != nil {
		return err
	}
	for _, stage := range reached {
		if dataset.Stage == stage {
			return nil
		}
	}
	return err
}

type refinementPackageChecker struct {
	packages curationports.PackageRepository
}

var _ refinementports.PackageReferenceChecker = refinementPackageChecker{}

func (c refinementPackageChecker) HasPackages(ctx context.Context, datasetID string) (bool, error) {
	return c.packages.HasPackages(ctx, datasetID)
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type ExportMetricsQuery struct {
	DatasetID string
}

// ExportMetricsResult is the detailed metrics export for the latest run,
// including the derived pass rate.
type ExportMetricsResult struct {
	Record   entities.RefinementRecord
	PassRate float64
}

type ExportMetricsUseCase struct {
	Datasets ports.DatasetRepository
	Records  ports.RefinementRecordRepository
	Logger   *slog.Logger
}

func (u ExportMetricsUseCase) Execute(ctx context.Context, query ExportMetricsQuery) (ExportMetricsResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if _, err := u.Datasets.GetDataset(ctx, query.DatasetID); err != nil {
		return ExportMetricsResult{}, err
	}

	record, found, err := u.Records.LatestRecord(ctx, query.DatasetID)
	if err != nil {
		return ExportMetricsResult{}, err
	}
	if !found {
		logger.Warn("export metrics without refinement",
			"event", "export_metrics_no_record",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", query.DatasetID,
		)
		return ExportMetricsResult{}, domainerrors.ErrNoRefinementRecord
	}

	passRate := 0.0
	if record.ItemsProcessed > 0 {
		passRate = float64(record.ItemsPassed) / float64(record.ItemsProcessed)
	}
	return ExportMetricsResult{Record: record, PassRate: passRate}, nil
}

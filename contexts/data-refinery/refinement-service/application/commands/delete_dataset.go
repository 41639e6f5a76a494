package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/refinement-service/application"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type DeleteDatasetCommand struct {
	DatasetID string
}

type DeleteDatasetResult struct {
	Tombstoned bool
}

// DeleteDatasetUseCase removes a dataset, unless a curated package still
// references it, in which case the dataset is tombstoned instead so package
// provenance stays resolvable.
type DeleteDatasetUseCase struct {
	Datasets ports.DatasetRepository
	Packages ports.PackageReferenceChecker
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u DeleteDatasetUseCase) Execute(ctx context.Context, cmd DeleteDatasetCommand) (DeleteDatasetResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.DatasetID) == "" {
		return DeleteDatasetResult{}, domainerrors.ErrInvalidDatasetRequest
	}

	referenced := false
	if u.Packages != nil {
		has, err := u.Packages.HasPackages(ctx, cmd.DatasetID)
		if err != nil {
			return DeleteDatasetResult{}, err
		}
		referenced = has
	}

	now := u.Clock.Now().UTC()
	tombstoned, err := u.Datasets.DeleteDataset(ctx, cmd.DatasetID, referenced, now)
	if err != nil {
		return DeleteDatasetResult{}, err
	}

	logger.Info("dataset deleted",
		"event", "dataset_deleted",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"tombstoned", tombstoned,
	)
	return DeleteDatasetResult{Tombstoned: tombstoned}, nil
}

package commands

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type CreateDatasetCommand struct {
	OwnerID     string
	Name        string
	Description string
	SourceType  string
	Metadata    map[string]string
}

type CreateDatasetResult struct {
	Dataset entities.Dataset
}

type CreateDatasetUseCase struct {
	Datasets    ports.DatasetRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateDatasetUseCase) Execute(ctx context.Context, cmd CreateDatasetCommand) (CreateDatasetResult, error) {
	logger := application.ResolveLogger(u.Logger)

	now := u.Clock.Now().UTC()
	datasetID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateDatasetResult{}, err
	}

	dataset := entities.Dataset{
		DatasetID:   datasetID,
		OwnerID:     cmd.OwnerID,
		Name:        cmd.Name,
		Description: cmd.Description,
		SourceType:  entities.DataSourceType(cmd.SourceType),
		Metadata:    cmd.Metadata,
		Stage:       entities.StageIngested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !dataset.ValidateBasics() {
		return CreateDatasetResult{}, domainerrors.ErrInvalidDatasetRequest
	}

	if err := u.Datasets.CreateDataset(ctx, dataset); err != nil {
		logger.Error("create dataset failed",
			"event", "create_dataset_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"owner_id", cmd.OwnerID,
			"error", err.Error(),
		)
		return CreateDatasetResult{}, err
	}

	logger.Info("dataset created",
		"event", "dataset_created",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", dataset.DatasetID,
		"owner_id", dataset.OwnerID,
		"source_type", dataset.SourceType,
	)
	return CreateDatasetResult{Dataset: dataset}, nil
}

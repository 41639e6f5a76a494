package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

// IngestItemInput is one collaborator-validated item: the ingestion
// collaborator has already checked format and size and computed the content
// hash. The core only records the result.
type IngestItemInput struct {
	Name        string
	ContentHash string
	Descriptor  string
	SizeBytes   int64
	Format      string
	Metadata    map[string]string
}

type IngestItemsCommand struct {
	DatasetID        string
	Method           string
	Items            []IngestItemInput
	ValidationErrors []string
}

type IngestItemsResult struct {
	Dataset       entities.Dataset
	ItemsAccepted int
}

type IngestItemsUseCase struct {
	Datasets    ports.DatasetRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u IngestItemsUseCase) Execute(ctx context.Context, cmd IngestItemsCommand) (IngestItemsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.DatasetID) == "" || len(cmd.Items) == 0 {
		return IngestItemsResult{}, domainerrors.ErrInvalidDatasetRequest
	}

	now := u.Clock.Now().UTC()
	items := make([]entities.Item, 0, len(cmd.Items))
	for position, input := range cmd.Items {
		itemID, err := u.IDGenerator.NewID(ctx)
		if err != nil {
			return IngestItemsResult{}, err
		}
		items = append(items, entities.Item{
			ItemID:      itemID,
			DatasetID:   cmd.DatasetID,
			Name:        input.Name,
			ContentHash: input.ContentHash,
			Descriptor:  input.Descriptor,
			SizeBytes:   input.SizeBytes,
			Format:      strings.ToLower(strings.TrimSpace(input.Format)),
			Metadata:    input.Metadata,
			Position:    position,
			IngestedAt:  now,
			Status:      entities.ItemStatusPending,
		})
	}

	recordID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return IngestItemsResult{}, err
	}
	record := ports.IngestionRecord{
		RecordID:         recordID,
		DatasetID:        cmd.DatasetID,
		Method:           cmd.Method,
		ItemsReceived:    len(cmd.Items) + len(cmd.ValidationErrors),
		ItemsAccepted:    len(cmd.Items),
		ValidationErrors: cmd.ValidationErrors,
		CreatedAt:        now,
	}

	dataset, err := u.Datasets.IngestItems(ctx, cmd.DatasetID, items, record, now)
	if err != nil {
		logger.Error("ingest items failed",
			"event", "ingest_items_failed",
			"module", "data-refinery/refinement-service",
			"layer", "application",
			"dataset_id", cmd.DatasetID,
			"error", err.Error(),
		)
		return IngestItemsResult{}, err
	}

	logger.Info("items ingested",
		"event", "items_ingested",
		"module", "data-refinery/refinement-service",
		"layer", "application",
		"dataset_id", cmd.DatasetID,
		"items_accepted", len(items),
		"stage", dataset.Stage,
	)
	return IngestItemsResult{Dataset: dataset, ItemsAccepted: len(items)}, nil
}

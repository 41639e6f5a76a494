package httpadapter

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/refinement-service/application"
	"refinery/contexts/data-refinery/refinement-service/application/commands"
	"refinery/contexts/data-refinery/refinement-service/application/queries"
	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	httptransport "refinery/contexts/data-refinery/refinement-service/transport/http"
)

type Handler struct {
	CreateDataset  commands.CreateDatasetUseCase
	IngestItems    commands.IngestItemsUseCase
	RefineDataset  commands.RefineDatasetUseCase
	DeleteDataset  commands.DeleteDatasetUseCase
	GetDataset     queries.GetDatasetUseCase
	ListDatasets   queries.ListDatasetsUseCase
	GetStatus      queries.GetRefinementStatusUseCase
	ExportMetrics  queries.ExportMetricsUseCase
	ListIngestions queries.ListIngestionsUseCase
	Logger         *slog.Logger
}

// CreateDatasetHandler godoc
// @Summary Register a dataset
// @Description Creates a dataset shell in stage ingested, ready to receive items.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param request body httptransport.CreateDatasetRequest true "Dataset descriptor"
// @Success 201 {object} httptransport.CreateDatasetResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets [post]
func (h Handler) CreateDatasetHandler(ctx context.Context, req httptransport.CreateDatasetRequest) (httptransport.CreateDatasetResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create dataset request received",
		"event", "http_create_dataset_received",
		"module", "data-refinery/refinement-service",
		"layer", "transport",
	)

	result, err := h.CreateDataset.Execute(ctx, commands.CreateDatasetCommand{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		SourceType:  req.SourceType,
		Metadata:    req.Metadata,
	})
	if err != nil {
		logger.Error("create dataset request failed",
			"event", "http_create_dataset_failed",
			"module", "data-refinery/refinement-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.CreateDatasetResponse{}, err
	}

	return httptransport.CreateDatasetResponse{
		Dataset: mapDataset(result.Dataset),
	}, nil
}

// ListDatasetsHandler godoc
// @Summary List datasets by owner
// @Description Returns all datasets of one owner in creation order.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param owner_id query string true "Owner id"
// @Success 200 {object} httptransport.ListDatasetsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets [get]
func (h Handler) ListDatasetsHandler(ctx context.Context, ownerID string) (httptransport.ListDatasetsResponse, error) {
	result, err := h.ListDatasets.Execute(ctx, queries.ListDatasetsQuery{OwnerID: ownerID})
	if err != nil {
		return httptransport.ListDatasetsResponse{}, err
	}
	return httptransport.ListDatasetsResponse{
		Items: mapDatasets(result.Items),
	}, nil
}

// GetDatasetHandler godoc
// @Summary Get dataset details
// @Description Returns a dataset with its items in ingestion order.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.GetDatasetResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id} [get]
func (h Handler) GetDatasetHandler(ctx context.Context, datasetID string) (httptransport.GetDatasetResponse, error) {
	result, err := h.GetDataset.Execute(ctx, queries.GetDatasetQuery{DatasetID: datasetID})
	if err != nil {
		return httptransport.GetDatasetResponse{}, err
	}
	return httptransport.GetDatasetResponse{
		Dataset: mapDataset(result.Dataset),
		Items:   mapItems(result.Items),
	}, nil
}

// IngestItemsHandler godoc
// @Summary Ingest validated items
// @Description Appends collaborator-validated items and advances the dataset to stage stored.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Param request body httptransport.IngestItemsRequest true "Validated items"
// @Success 200 {object} httptransport.IngestItemsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/items [post]
func (h Handler) IngestItemsHandler(ctx context.Context, datasetID string, req httptransport.IngestItemsRequest) (httptransport.IngestItemsResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("ingest items request received",
		"event", "http_ingest_items_received",
		"module", "data-refinery/refinement-service",
		"layer", "transport",
		"dataset_id", datasetID,
	)

	inputs := make([]commands.IngestItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, commands.IngestItemInput{
			Name:        item.Name,
			ContentHash: item.ContentHash,
			Descriptor:  item.Descriptor,
			SizeBytes:   item.SizeBytes,
			Format:      item.Format,
			Metadata:    item.Metadata,
		})
	}

	result, err := h.IngestItems.Execute(ctx, commands.IngestItemsCommand{
		DatasetID:        datasetID,
		Method:           req.Method,
		Items:            inputs,
		ValidationErrors: req.ValidationErrors,
	})
	if err != nil {
		logger.Error("ingest items request failed",
			"event", "http_ingest_items_failed",
			"module", "data-refinery/refinement-service",
			"layer", "transport",
			"dataset_id", datasetID,
			"error", err.Error(),
		)
		return httptransport.IngestItemsResponse{}, err
	}

	return httptransport.IngestItemsResponse{
		Dataset:       mapDataset(result.Dataset),
		ItemsAccepted: result.ItemsAccepted,
	}, nil
}

// RefineDatasetHandler godoc
// @Summary Run the refinement pipeline
// @Description Scores, deduplicates, and classifies dataset items under the given thresholds.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Param request body httptransport.RefineDatasetRequest true "Pipeline thresholds"
// @Success 200 {object} httptransport.RefineDatasetResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/refine [post]
func (h Handler) RefineDatasetHandler(ctx context.Context, datasetID string, req httptransport.RefineDatasetRequest) (httptransport.RefineDatasetResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("refine dataset request received",
		"event", "http_refine_dataset_received",
		"module", "data-refinery/refinement-service",
		"layer", "transport",
		"dataset_id", datasetID,
	)

	result, err := h.RefineDataset.Execute(ctx, commands.RefineDatasetCommand{
		DatasetID:        datasetID,
		QualityThreshold: req.QualityThreshold,
		DedupThreshold:   req.DedupThreshold,
	})
	if err != nil {
		logger.Error("refine dataset request failed",
			"event", "http_refine_dataset_failed",
			"module", "data-refinery/refinement-service",
			"layer", "transport",
			"dataset_id", datasetID,
			"error", err.Error(),
		)
		return httptransport.RefineDatasetResponse{}, err
	}

	return httptransport.RefineDatasetResponse{
		Dataset: mapDataset(result.Dataset),
		Record:  mapRecord(result.Record),
	}, nil
}

// GetRefinementStatusHandler godoc
// @Summary Get pipeline status
// @Description Returns the dataset stage plus the latest run record, if any.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.GetRefinementStatusResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/status [get]
func (h Handler) GetRefinementStatusHandler(ctx context.Context, datasetID string) (httptransport.GetRefinementStatusResponse, error) {
	result, err := h.GetStatus.Execute(ctx, queries.GetRefinementStatusQuery{DatasetID: datasetID})
	if err != nil {
		return httptransport.GetRefinementStatusResponse{}, err
	}

	response := httptransport.GetRefinementStatusResponse{
		DatasetID: datasetID,
		Stage:     string(result.Stage),
		Refined:   result.Refined,
	}
	if result.Refined || result.LatestRecord.RecordID != "" {
		record := mapRecord(result.LatestRecord)
		response.LatestRecord = &record
	}
	return response, nil
}

// ExportMetricsHandler godoc
// @Summary Export run metrics
// @Description Returns the latest run record with the derived pass rate.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.ExportMetricsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/metrics [get]
func (h Handler) ExportMetricsHandler(ctx context.Context, datasetID string) (httptransport.ExportMetricsResponse, error) {
	result, err := h.ExportMetrics.Execute(ctx, queries.ExportMetricsQuery{DatasetID: datasetID})
	if err != nil {
		return httptransport.ExportMetricsResponse{}, err
	}
	return httptransport.ExportMetricsResponse{
		Record:   mapRecord(result.Record),
		PassRate: result.PassRate,
	}, nil
}

// ListIngestionsHandler godoc
// @Summary List ingestion history
// @Description Returns the ingestion events of a dataset, oldest first.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.ListIngestionsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id}/ingestions [get]
func (h Handler) ListIngestionsHandler(ctx context.Context, datasetID string) (httptransport.ListIngestionsResponse, error) {
	result, err := h.ListIngestions.Execute(ctx, queries.ListIngestionsQuery{DatasetID: datasetID})
	if err != nil {
		return httptransport.ListIngestionsResponse{}, err
	}
	items := make([]httptransport.IngestionRecordDTO, 0, len(result.Items))
	for _, record := range result.Items {
		items = append(items, httptransport.IngestionRecordDTO{
			RecordID:         record.RecordID,
			DatasetID:        record.DatasetID,
			Method:           record.Method,
			ItemsReceived:    record.ItemsReceived,
			ItemsAccepted:    record.ItemsAccepted,
			ValidationErrors: record.ValidationErrors,
			CreatedAt:        record.CreatedAt.UTC().Format(timestampLayout),
		})
	}
	return httptransport.ListIngestionsResponse{Items: items}, nil
}

// DeleteDatasetHandler godoc
// @Summary Delete a dataset
// @Description Removes a dataset, or tombstones it when a curated package still references it.
// @Tags refinement-service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-Id header string true "Request correlation id"
// @Param dataset_id path string true "Dataset id"
// @Success 200 {object} httptransport.DeleteDatasetResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /refinery/datasets/{dataset_id} [delete]
func (h Handler) DeleteDatasetHandler(ctx context.Context, datasetID string) (httptransport.DeleteDatasetResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	result, err := h.DeleteDataset.Execute(ctx, commands.DeleteDatasetCommand{DatasetID: datasetID})
	if err != nil {
		logger.Error("delete dataset request failed",
			"event", "http_delete_dataset_failed",
			"module", "data-refinery/refinement-service",
			"layer", "transport",
			"dataset_id", datasetID,
			"error", err.Error(),
		)
		return httptransport.DeleteDatasetResponse{}, err
	}

	return httptransport.DeleteDatasetResponse{
		DatasetID:  datasetID,
		Tombstoned: result.Tombstoned,
	}, nil
}

const timestampLayout = "2006-01-02T15:04:05Z"

func mapDatasets(datasets []entities.Dataset) []httptransport.DatasetDTO {
	items := make([]httptransport.DatasetDTO, 0, len(datasets))
	for _, dataset := range datasets {
		items = append(items, mapDataset(dataset))
	}
	return items
}

func mapDataset(dataset entities.Dataset) httptransport.DatasetDTO {
	return httptransport.DatasetDTO{
		DatasetID:      dataset.DatasetID,
		OwnerID:        dataset.OwnerID,
		Name:           dataset.Name,
		Description:    dataset.Description,
		SourceType:     string(dataset.SourceType),
		Stage:          string(dataset.Stage),
		QualityScore:   dataset.QualityScore,
		ItemCount:      dataset.ItemCount,
		TotalSizeBytes: dataset.TotalSizeBytes,
		Metadata:       dataset.Metadata,
		Tombstoned:     dataset.Tombstoned,
		CreatedAt:      dataset.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:      dataset.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func mapItems(items []entities.Item) []httptransport.ItemDTO {
	dtos := make([]httptransport.ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, mapItem(item))
	}
	return dtos
}

func mapItem(item entities.Item) httptransport.ItemDTO {
	return httptransport.ItemDTO{
		ItemID:          item.ItemID,
		Name:            item.Name,
		ContentHash:     item.ContentHash,
		SizeBytes:       item.SizeBytes,
		Format:          item.Format,
		Metadata:        item.Metadata,
		Position:        item.Position,
		Status:          string(item.Status),
		RejectionReason: string(item.RejectionReason),
		OverallQuality:  item.Metrics.OverallQuality,
		Scores:          mapScores(item.Metrics.Scores),
		IngestedAt:      item.IngestedAt.UTC().Format(timestampLayout),
	}
}

func mapScores(scores entities.DimensionScores) httptransport.ItemScoresDTO {
	return httptransport.ItemScoresDTO{
		Completeness:    scores.Completeness,
		Clarity:         scores.Clarity,
		Relevance:       scores.Relevance,
		FormatValidity:  scores.FormatValidity,
		MetadataQuality: scores.MetadataQuality,
	}
}

func mapRecord(record entities.RefinementRecord) httptransport.RefinementRecordDTO {
	return httptransport.RefinementRecordDTO{
		RecordID:             record.RecordID,
		DatasetID:            record.DatasetID,
		Scores:               mapScores(record.Scores),
		OverallQuality:       record.OverallQuality,
		NotApplicable:        record.NotApplicable,
		QualityThreshold:     record.QualityThreshold,
		DedupThreshold:       record.DedupThreshold,
		DedupMethod:          record.DedupMethod,
		ItemsProcessed:       record.ItemsProcessed,
		ItemsPassed:          record.ItemsPassed,
		ItemsRejected:        record.ItemsRejected,
		DuplicatesFound:      record.DuplicatesFound,
		Classifications:      mapClassifications(record.Classifications),
		ScoringErrors:        record.ScoringErrors,
		ClassificationErrors: record.ClassificationErrors,
		FailureReason:        record.FailureReason,
		StartedAt:            record.StartedAt.UTC().Format(timestampLayout),
		CompletedAt:          record.CompletedAt.UTC().Format(timestampLayout),
		MetricsDigest:        record.MetricsDigest,
	}
}

func mapClassifications(c entities.Classifications) httptransport.ClassificationsDTO {
	return httptransport.ClassificationsDTO{
		Languages:    c.Languages,
		Modalities:   c.Modalities,
		Domains:      c.Domains,
		ContentTypes: c.ContentTypes,
	}
}

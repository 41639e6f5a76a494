package postgresadapter

import (
	"encoding/json"
	"time"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	"refinery/contexts/data-refinery/refinement-service/ports"
)

type datasetModel struct {
	DatasetID      string    `gorm:"column:dataset_id;primaryKey"`
	OwnerID        string    `gorm:"column:owner_id;index"`
	Name           string    `gorm:"column:name"`
	Description    string    `gorm:"column:description"`
	SourceType     string    `gorm:"column:source_type"`
	Stage          string    `gorm:"column:stage;index"`
	QualityScore   float64   `gorm:"column:quality_score"`
	ItemCount      int       `gorm:"column:item_count"`
	TotalSizeBytes int64     `gorm:"column:total_size_bytes"`
	Metadata       []byte    `gorm:"column:metadata;type:jsonb"`
	Tombstoned     bool      `gorm:"column:tombstoned"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (datasetModel) TableName() string {
	return "refinement_datasets"
}

func datasetModelFromEntity(dataset entities.Dataset) (datasetModel, error) {
	metadata, err := json.Marshal(dataset.Metadata)
	if err != nil {
		return datasetModel{}, err
	}
	return datasetModel{
		DatasetID:      dataset.DatasetID,
		OwnerID:        dataset.OwnerID,
		Name:           dataset.Name,
		Description:    dataset.Description,
		SourceType:     string(dataset.SourceType),
		Stage:          string(dataset.Stage),
		QualityScore:   dataset.QualityScore,
		ItemCount:      dataset.ItemCount,
		TotalSizeBytes: dataset.TotalSizeBytes,
		Metadata:       metadata,
		Tombstoned:     dataset.Tombstoned,
		CreatedAt:      dataset.CreatedAt.UTC(),
		UpdatedAt:      dataset.UpdatedAt.UTC(),
	}, nil
}

func (m datasetModel) toEntity() (entities.Dataset, error) {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return entities.Dataset{}, err
		}
	}
	return entities.Dataset{
		DatasetID:      m.DatasetID,
		OwnerID:        m.OwnerID,
		Name:           m.Name,
		Description:    m.Description,
		SourceType:     entities.DataSourceType(m.SourceType),
		Stage:          entities.DatasetStage(m.Stage),
		QualityScore:   m.QualityScore,
		ItemCount:      m.ItemCount,
		TotalSizeBytes: m.TotalSizeBytes,
		Metadata:       metadata,
		Tombstoned:     m.Tombstoned,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

type itemModel struct {
	ItemID          string    `gorm:"column:item_id;primaryKey"`
	DatasetID       string    `gorm:"column:dataset_id;index"`
	Name            string    `gorm:"column:name"`
	ContentHash     string    `gorm:"column:content_hash"`
	Descriptor      string    `gorm:"column:descriptor"`
	SizeBytes       int64     `gorm:"column:size_bytes"`
	Format          string    `gorm:"column:format"`
	Metadata        []byte    `gorm:"column:metadata;type:jsonb"`
	Position        int       `gorm:"column:position"`
	IngestedAt      time.Time `gorm:"column:ingested_at"`
	Status          string    `gorm:"column:status"`
	RejectionReason string    `gorm:"column:rejection_reason"`
	Metrics         []byte    `gorm:"column:metrics;type:jsonb"`
}

func (itemModel) TableName() string {
	return "refinement_items"
}

func itemModelFromEntity(item entities.Item) (itemModel, error) {
	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return itemModel{}, err
	}
	metrics, err := json.Marshal(item.Metrics)
	if err != nil {
		return itemModel{}, err
	}
	return itemModel{
		ItemID:          item.ItemID,
		DatasetID:       item.DatasetID,
		Name:            item.Name,
		ContentHash:     item.ContentHash,
		Descriptor:      item.Descriptor,
		SizeBytes:       item.SizeBytes,
		Format:          item.Format,
		Metadata:        metadata,
		Position:        item.Position,
		IngestedAt:      item.IngestedAt.UTC(),
		Status:          string(item.Status),
		RejectionReason: string(item.RejectionReason),
		Metrics:         metrics,
	}, nil
}

func (m itemModel) toEntity() (entities.Item, error) {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return entities.Item{}, err
		}
	}
	var metrics entities.ItemMetrics
	if len(m.Metrics) > 0 {
		if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
			return entities.Item{}, err
		}
	}
	return entities.Item{
		ItemID:          m.ItemID,
		DatasetID:       m.DatasetID,
		Name:            m.Name,
		ContentHash:     m.ContentHash,
		Descriptor:      m.Descriptor,
		SizeBytes:       m.SizeBytes,
		Format:          m.Format,
		Metadata:        metadata,
		Position:        m.Position,
		IngestedAt:      m.IngestedAt,
		Status:          entities.ItemStatus(m.Status),
		RejectionReason: entities.RejectionReason(m.RejectionReason),
		Metrics:         metrics,
	}, nil
}

func itemsFromModels(rows []itemModel) ([]entities.Item, error) {
	items := make([]entities.Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type refinementRecordModel struct {
	RecordID             string    `gorm:"column:record_id;primaryKey"`
	DatasetID            string    `gorm:"column:dataset_id;index"`
	Scores               []byte    `gorm:"column:scores;type:jsonb"`
	OverallQuality       float64   `gorm:"column:overall_quality"`
	NotApplicable        bool      `gorm:"column:not_applicable"`
	QualityThreshold     float64   `gorm:"column:quality_threshold"`
	DedupThreshold       float64   `gorm:"column:dedup_threshold"`
	DedupMethod          string    `gorm:"column:dedup_method"`
	ItemsProcessed       int       `gorm:"column:items_processed"`
	ItemsPassed          int       `gorm:"column:items_passed"`
	ItemsRejected        int       `gorm:"column:items_rejected"`
	DuplicatesFound      int       `gorm:"column:duplicates_found"`
	Classifications      []byte    `gorm:"column:classifications;type:jsonb"`
	ScoringErrors        int       `gorm:"column:scoring_errors"`
	ClassificationErrors int       `gorm:"column:classification_errors"`
	FailureReason        string    `gorm:"column:failure_reason"`
	StartedAt            time.Time `gorm:"column:started_at"`
	CompletedAt          time.Time `gorm:"column:completed_at"`
	MetricsDigest        string    `gorm:"column:metrics_digest"`
}

func (refinementRecordModel) TableName() string {
	return "refinement_records"
}

func recordModelFromEntity(record entities.RefinementRecord) (refinementRecordModel, error) {
	scores, err := json.Marshal(record.Scores)
	if err != nil {
		return refinementRecordModel{}, err
	}
	classifications, err := json.Marshal(record.Classifications)
	if err != nil {
		return refinementRecordModel{}, err
	}
	return refinementRecordModel{
		RecordID:             record.RecordID,
		DatasetID:            record.DatasetID,
		Scores:               scores,
		OverallQuality:       record.OverallQuality,
		NotApplicable:        record.NotApplicable,
		QualityThreshold:     record.QualityThreshold,
		DedupThreshold:       record.DedupThreshold,
		DedupMethod:          record.DedupMethod,
		ItemsProcessed:       record.ItemsProcessed,
		ItemsPassed:          record.ItemsPassed,
		ItemsRejected:        record.ItemsRejected,
		DuplicatesFound:      record.DuplicatesFound,
		Classifications:      classifications,
		ScoringErrors:        record.ScoringErrors,
		ClassificationErrors: record.ClassificationErrors,
		FailureReason:        record.FailureReason,
		StartedAt:            record.StartedAt.UTC(),
		CompletedAt:          record.CompletedAt.UTC(),
		MetricsDigest:        record.MetricsDigest,
	}, nil
}

func (m refinementRecordModel) toEntity() (entities.RefinementRecord, error) {
	var scores entities.DimensionScores
	if len(m.Scores) > 0 {
		if err := json.Unmarshal(m.Scores, &scores); err != nil {
			return entities.RefinementRecord{}, err
		}
	}
	var classifications entities.Classifications
	if len(m.Classifications) > 0 {
		if err := json.Unmarshal(m.Classifications, &classifications); err != nil {
			return entities.RefinementRecord{}, err
		}
	}
	return entities.RefinementRecord{
		RecordID:             m.RecordID,
		DatasetID:            m.DatasetID,
		Scores:               scores,
		OverallQuality:       m.OverallQuality,
		NotApplicable:        m.NotApplicable,
		QualityThreshold:     m.QualityThreshold,
		DedupThreshold:       m.DedupThreshold,
		DedupMethod:          m.DedupMethod,
		ItemsProcessed:       m.ItemsProcessed,
		ItemsPassed:          m.ItemsPassed,
		ItemsRejected:        m.ItemsRejected,
		DuplicatesFound:      m.DuplicatesFound,
		Classifications:      classifications,
		ScoringErrors:        m.ScoringErrors,
		ClassificationErrors: m.ClassificationErrors,
		FailureReason:        m.FailureReason,
		StartedAt:            m.StartedAt,
		CompletedAt:          m.CompletedAt,
		MetricsDigest:        m.MetricsDigest,
	}, nil
}

type ingestionRecordModel struct {
	RecordID         string    `gorm:"column:record_id;primaryKey"`
	DatasetID        string    `gorm:"column:dataset_id;index"`
	Method           string    `gorm:"column:method"`
	ItemsReceived    int       `gorm:"column:items_received"`
	ItemsAccepted    int       `gorm:"column:items_accepted"`
	ValidationErrors []byte    `gorm:"column:validation_errors;type:jsonb"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (ingestionRecordModel) TableName() string {
	return "refinement_ingestions"
}

func ingestionModelFromPort(record ports.IngestionRecord) (ingestionRecordModel, error) {
	validationErrors, err := json.Marshal(record.ValidationErrors)
	if err != nil {
		return ingestionRecordModel{}, err
	}
	return ingestionRecordModel{
		RecordID:         record.RecordID,
		DatasetID:        record.DatasetID,
		Method:           record.Method,
		ItemsReceived:    record.ItemsReceived,
		ItemsAccepted:    record.ItemsAccepted,
		ValidationErrors: validationErrors,
		CreatedAt:        record.CreatedAt.UTC(),
	}, nil
}

func (m ingestionRecordModel) toPort() (ports.IngestionRecord, error) {
	var validationErrors []string
	if len(m.ValidationErrors) > 0 {
		if err := json.Unmarshal(m.ValidationErrors, &validationErrors); err != nil {
			return ports.IngestionRecord{}, err
		}
	}
	return ports.IngestionRecord{
		RecordID:         m.RecordID,
		DatasetID:        m.DatasetID,
		Method:           m.Method,
		ItemsReceived:    m.ItemsReceived,
		ItemsAccepted:    m.ItemsAccepted,
		ValidationErrors: validationErrors,
		CreatedAt:        m.CreatedAt,
	}, nil
}

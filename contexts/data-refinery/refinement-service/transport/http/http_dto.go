package httptransport

type CreateDatasetRequest struct {
	OwnerID     string            `json:"owner_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	SourceType  string            `json:"source_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type DatasetDTO struct {
	DatasetID      string            `json:"dataset_id"`
	OwnerID        string            `json:"owner_id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	SourceType     string            `json:"source_type"`
	Stage          string            `json:"stage"`
	QualityScore   float64           `json:"quality_score"`
	ItemCount      int               `json:"item_count"`
	TotalSizeBytes int64             `json:"total_size_bytes"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Tombstoned     bool              `json:"tombstoned,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

type CreateDatasetResponse struct {
	Dataset DatasetDTO `json:"dataset"`
}

type ListDatasetsResponse struct {
	Items []DatasetDTO `json:"items"`
}

type IngestItemDTO struct {
	Name        string            `json:"name"`
	ContentHash string            `json:"content_hash"`
	Descriptor  string            `json:"descriptor,omitempty"`
	SizeBytes   int64             `json:"size_bytes"`
	Format      string            `json:"format"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type IngestItemsRequest struct {
	Method           string          `json:"method,omitempty"`
	Items            []IngestItemDTO `json:"items"`
	ValidationErrors []string        `json:"validation_errors,omitempty"`
}

type IngestItemsResponse struct {
	Dataset       DatasetDTO `json:"dataset"`
	ItemsAccepted int        `json:"items_accepted"`
}

type ItemScoresDTO struct {
	Completeness    float64 `json:"completeness"`
	Clarity         float64 `json:"clarity"`
	Relevance       float64 `json:"relevance"`
	FormatValidity  float64 `json:"format_validity"`
	MetadataQuality float64 `json:"metadata_quality"`
}

type ItemDTO struct {
	ItemID          string            `json:"item_id"`
	Name            string            `json:"name"`
	ContentHash     string            `json:"content_hash"`
	SizeBytes       int64             `json:"size_bytes"`
	Format          string            `json:"format"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Position        int               `json:"position"`
	Status          string            `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	OverallQuality  float64           `json:"overall_quality"`
	Scores          ItemScoresDTO     `json:"scores"`
	IngestedAt      string            `json:"ingested_at"`
}

type GetDatasetResponse struct {
	Dataset DatasetDTO `json:"dataset"`
	Items   []ItemDTO  `json:"items"`
}

type RefineDatasetRequest struct {
	QualityThreshold float64  `json:"quality_threshold"`
	DedupThreshold   *float64 `json:"dedup_threshold,omitempty"`
}

type ClassificationsDTO struct {
	Languages    map[string]float64 `json:"languages"`
	Modalities   map[string]float64 `json:"modalities"`
	Domains      map[string]float64 `json:"domains"`
	ContentTypes map[string]float64 `json:"content_types"`
}

type RefinementRecordDTO struct {
	RecordID             string             `json:"record_id"`
	DatasetID            string             `json:"dataset_id"`
	Scores               ItemScoresDTO      `json:"scores"`
	OverallQuality       float64            `json:"overall_quality"`
	NotApplicable        bool               `json:"not_applicable,omitempty"`
	QualityThreshold     float64            `json:"quality_threshold"`
	DedupThreshold       float64            `json:"dedup_threshold"`
	DedupMethod          string             `json:"dedup_method"`
	ItemsProcessed       int                `json:"items_processed"`
	ItemsPassed          int                `json:"items_passed"`
	ItemsRejected        int                `json:"items_rejected"`
	DuplicatesFound      int                `json:"duplicates_found"`
	Classifications      ClassificationsDTO `json:"classifications"`
	ScoringErrors        int                `json:"scoring_errors"`
	ClassificationErrors int                `json:"classification_errors"`
	FailureReason        string             `json:"failure_reason,omitempty"`
	StartedAt            string             `json:"started_at"`
	CompletedAt          string             `json:"completed_at"`
	MetricsDigest        string             `json:"metrics_digest"`
}

type RefineDatasetResponse struct {
	Dataset DatasetDTO          `json:"dataset"`
	Record  RefinementRecordDTO `json:"record"`
}

type GetRefinementStatusResponse struct {
	DatasetID    string               `json:"dataset_id"`
	Stage        string               `json:"stage"`
	Refined      bool                 `json:"refined"`
	LatestRecord *RefinementRecordDTO `json:"latest_record,omitempty"`
}

type ExportMetricsResponse struct {
	Record   RefinementRecordDTO `json:"record"`
	PassRate float64             `json:"pass_rate"`
}

type IngestionRecordDTO struct {
	RecordID         string   `json:"record_id"`
	DatasetID        string   `json:"dataset_id"`
	Method           string   `json:"method,omitempty"`
	ItemsReceived    int      `json:"items_received"`
	ItemsAccepted    int      `json:"items_accepted"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

type ListIngestionsResponse struct {
	Items []IngestionRecordDTO `json:"items"`
}

type DeleteDatasetResponse struct {
	DatasetID  string `json:"dataset_id"`
	Tombstoned bool   `json:"tombstoned"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

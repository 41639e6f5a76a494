package httptransport

import "encoding/json"

type CreatePackageRequest struct {
	DatasetID   string `json:"dataset_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
	LicenseType string `json:"license_type"`
}

type ManifestEntryDTO struct {
	ItemID         string             `json:"item_id"`
	Name           string             `json:"name"`
	ContentHash    string             `json:"content_hash"`
	SizeBytes      int64              `json:"size_bytes"`
	Format         string             `json:"format"`
	OverallQuality float64            `json:"overall_quality"`
	Scores         map[string]float64 `json:"scores,omitempty"`
}

type ProvenanceEntryDTO struct {
	Actor         string `json:"actor"`
	Operation     string `json:"operation"`
	Timestamp     string `json:"timestamp"`
	MetricsDigest string `json:"metrics_digest,omitempty"`
}

type PackageDTO struct {
	PackageID       string               `json:"package_id"`
	SourceDatasetID string               `json:"source_dataset_id"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Version         string               `json:"version"`
	ItemCount       int                  `json:"item_count"`
	SizeBytes       int64                `json:"size_bytes"`
	QualityScore    float64              `json:"quality_score"`
	Manifest        []ManifestEntryDTO   `json:"manifest"`
	Provenance      []ProvenanceEntryDTO `json:"provenance"`
	LicenseType     string               `json:"license_type"`
	IsAvailable     bool                 `json:"is_available"`
	IsForSale       bool                 `json:"is_for_sale"`
	PriceUSD        float64              `json:"price_usd"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

type CreatePackageResponse struct {
	Package PackageDTO `json:"package"`
}

type GetPackageResponse struct {
	Package PackageDTO `json:"package"`
}

type ListPackagesResponse struct {
	Items []PackageDTO `json:"items"`
}

type ExportPackageResponse struct {
	Export json.RawMessage `json:"export"`
}

type SetSaleReadinessRequest struct {
	IsForSale bool    `json:"is_for_sale"`
	PriceUSD  float64 `json:"price_usd"`
}

type SetSaleReadinessResponse struct {
	Package PackageDTO `json:"package"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

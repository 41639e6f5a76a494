package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

type LicenseType string

const (
	LicenseResearch   LicenseType = "research"
	LicenseCommercial LicenseType = "commercial"
	LicenseOpen       LicenseType = "open"
)

func IsSupportedLicenseType(value string) bool {
	switch LicenseType(value) {
	case LicenseResearch, LicenseCommercial, LicenseOpen:
		return true
	default:
		return false
	}
}

// ManifestEntry pins one curated item: identity, content hash, and the
// quality metrics it carried when the package was cut.
type ManifestEntry struct {
	ItemID         string             `json:"item_id"`
	Name           string             `json:"name"`
	ContentHash    string             `json:"content_hash"`
	SizeBytes      int64              `json:"size_bytes"`
	Format         string             `json:"format"`
	OverallQuality float64            `json:"overall_quality"`
	Scores         map[string]float64 `json:"scores,omitempty"`
}

// Provenance actors and operations recorded on package creation.
const (
	ActorIngestion  = "ingestion"
	ActorRefinement = "refinement"
	ActorCuration   = "curation"

	OperationIngest  = "ingest"
	OperationRefine  = "refine"
	OperationPackage = "package"
)

// ProvenanceEntry is one step in the package's lineage. The chain is
// append-only and written in full at creation time.
type ProvenanceEntry struct {
	Actor         string    `json:"actor"`
	Operation     string    `json:"operation"`
	Timestamp     time.Time `json:"timestamp"`
	MetricsDigest string    `json:"metrics_digest,omitempty"`
}

// DataPackage is an immutable snapshot of a refined dataset's passed items.
// Sale readiness (IsForSale, PriceUSD) is the only mutable surface; manifest,
// provenance, and quality score never change after creation.
type DataPackage struct {
	PackageID       string
	SourceDatasetID string
	Name            string
	Description     string
	Version         string
	ItemCount       int
	SizeBytes       int64
	QualityScore    float64
	Manifest        []ManifestEntry
	Provenance      []ProvenanceEntry
	LicenseType     LicenseType
	IsAvailable     bool
	IsForSale       bool
	PriceUSD        float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p DataPackage) ValidateBasics() bool {
	return strings.TrimSpace(p.SourceDatasetID) != "" &&
		strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Version) != "" &&
		IsSupportedLicenseType(string(p.LicenseType))
}

// ManifestDigest hashes the ordered manifest. encoding/json sorts map keys,
// so the digest is stable for identical manifests.
func ManifestDigest(manifest []ManifestEntry) string {
	payload, err := json.Marshal(manifest)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

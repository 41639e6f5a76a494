package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Dimension weights for the overall quality score. Fixed and documented so
// reruns over unchanged input reproduce identical overall scores.
const (
	WeightCompleteness    = 0.20
	WeightClarity         = 0.25
	WeightRelevance       = 0.25
	WeightFormatValidity  = 0.20
	WeightMetadataQuality = 0.10
)

type DimensionScores struct {
	Completeness    float64 `json:"completeness"`
	Clarity         float64 `json:"clarity"`
	Relevance       float64 `json:"relevance"`
	FormatValidity  float64 `json:"format_validity"`
	MetadataQuality float64 `json:"metadata_quality"`
}

// WeightedOverall folds the five dimensions into the overall quality score.
func (d DimensionScores) WeightedOverall() float64 {
	return d.Completeness*WeightCompleteness +
		d.Clarity*WeightClarity +
		d.Relevance*WeightRelevance +
		d.FormatValidity*WeightFormatValidity +
		d.MetadataQuality*WeightMetadataQuality
}

// LabelDistribution maps a label to its share of classified items. Shares sum
// to 1 within a small tolerance when any item was classified.
type LabelDistribution map[string]float64

type Classifications struct {
	Languages    LabelDistribution `json:"languages"`
	Modalities   LabelDistribution `json:"modalities"`
	Domains      LabelDistribution `json:"domains"`
	ContentTypes LabelDistribution `json:"content_types"`
}

const DedupMethodHashAndSemantic = "hash_and_semantic"

// RefinementRecord is an append-only history entry for one pipeline run.
// Records are immutable once written.
type RefinementRecord struct {
	RecordID             string
	DatasetID            string
	Scores               DimensionScores
	OverallQuality       float64
	NotApplicable        bool
	QualityThreshold     float64
	DedupThreshold       float64
	DedupMethod          string
	ItemsProcessed       int
	ItemsPassed          int
	ItemsRejected        int
	DuplicatesFound      int
	Classifications      Classifications
	ScoringErrors        int
	ClassificationErrors int
	FailureReason        string
	StartedAt            time.Time
	CompletedAt          time.Time
	MetricsDigest        string
}

func (r RefinementRecord) Succeeded() bool {
	return r.FailureReason == ""
}

// ComputeMetricsDigest hashes the run metrics into the digest bound to
// provenance entries. encoding/json sorts map keys, so the digest is stable
// for identical metrics.
func (r RefinementRecord) ComputeMetricsDigest() string {
	payload, err := json.Marshal(struct {
		Scores           DimensionScores `json:"scores"`
		OverallQuality   float64         `json:"overall_quality"`
		QualityThreshold float64         `json:"quality_threshold"`
		DedupThreshold   float64         `json:"dedup_threshold"`
		ItemsProcessed   int             `json:"items_processed"`
		ItemsPassed      int             `json:"items_passed"`
		ItemsRejected    int             `json:"items_rejected"`
		DuplicatesFound  int             `json:"duplicates_found"`
		Classifications  Classifications `json:"classifications"`
	}{
		Scores:           r.Scores,
		OverallQuality:   r.OverallQuality,
		QualityThreshold: r.QualityThreshold,
		DedupThreshold:   r.DedupThreshold,
		ItemsProcessed:   r.ItemsProcessed,
		ItemsPassed:      r.ItemsPassed,
		ItemsRejected:    r.ItemsRejected,
		DuplicatesFound:  r.DuplicatesFound,
		Classifications:  r.Classifications,
	})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

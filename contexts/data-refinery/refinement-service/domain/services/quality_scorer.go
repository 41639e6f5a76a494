package services

import (
	"strings"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

// supportedFormats mirrors the ingestion collaborator's accepted extensions,
// grouped by modality.
var supportedFormats = map[string]string{
	"txt": "text", "pdf": "text", "csv": "text", "json": "text", "xml": "text",
	"mp3": "audio", "wav": "audio", "m4a": "audio", "flac": "audio",
	"mp4": "video", "avi": "video", "mov": "video", "mkv": "video", "webm": "video",
	"jpg": "image", "jpeg": "image", "png": "image", "gif": "image", "bmp": "image", "webp": "image",
}

// HeuristicScorer is the default quality scoring strategy: deterministic
// content heuristics over the item descriptor, format, and metadata. A real
// model-backed scorer substitutes through the same contract.
type HeuristicScorer struct{}

// ScoreItems rates every item on the five dimensions and aggregates them into
// dataset-level scores. Unreadable items score 0 on the content dimensions and
// are tallied as scoring errors; they never abort the run. An empty item set
// yields overall quality 0 with the not_applicable flag instead of dividing
// by zero.
func (HeuristicScorer) ScoreItems(items []entities.Item) entities.ScoringResult {
	result := entities.ScoringResult{
		PerItem: make(map[string]entities.ItemMetrics, len(items)),
	}
	if len(items) == 0 {
		result.NotApplicable = true
		return result
	}

	var sums entities.DimensionScores
	for _, item := range items {
		scores := scoreItem(item)
		if !item.Readable() {
			result.ScoringErrors++
		}
		result.PerItem[item.ItemID] = entities.ItemMetrics{
			Scores:         scores,
			OverallQuality: scores.WeightedOverall(),
			ScoringError:   !item.Readable(),
		}
		sums.Completeness += scores.Completeness
		sums.Clarity += scores.Clarity
		sums.Relevance += scores.Relevance
		sums.FormatValidity += scores.FormatValidity
		sums.MetadataQuality += scores.MetadataQuality
	}

	count := float64(len(items))
	result.Aggregate = entities.DimensionScores{
		Completeness:    sums.Completeness / count,
		Clarity:         sums.Clarity / count,
		Relevance:       sums.Relevance / count,
		FormatValidity:  sums.FormatValidity / count,
		MetadataQuality: sums.MetadataQuality / count,
	}
	result.OverallQuality = result.Aggregate.WeightedOverall()
	return result
}

func scoreItem(item entities.Item) entities.DimensionScores {
	scores := entities.DimensionScores{
		FormatValidity:  formatValidity(item),
		Relevance:       relevance(item),
		MetadataQuality: metadataQuality(item),
	}
	if !item.Readable() {
		// Corrupt or unreadable content: the content-derived dimensions are
		// zeroed, the rest still score from format/metadata.
		return scores
	}
	scores.Completeness = completeness(item)
	scores.Clarity = clarity(item)
	return scores
}

func completeness(item entities.Item) float64 {
	score := 0.0
	if item.ContentHash != "" {
		score += 0.5
	}
	if item.SizeBytes > 0 {
		score += 0.25
	}
	if strings.TrimSpace(item.Descriptor) != "" {
		score += 0.25
	}
	return score
}

// clarity approximates signal density as the unique-token share of the
// descriptor. Highly repetitive content scores low.
func clarity(item entities.Item) float64 {
	tokens := strings.Fields(strings.ToLower(item.Descriptor))
	if len(tokens) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		unique[token] = struct{}{}
	}
	return float64(len(unique)) / float64(len(tokens))
}

// recognizedDomains are the target domains the platform curates for.
var recognizedDomains = map[string]struct{}{
	"general": {}, "technical": {}, "medical": {}, "legal": {}, "financial": {}, "creative": {},
}

func relevance(item entities.Item) float64 {
	domain := strings.ToLower(strings.TrimSpace(item.Metadata["domain"]))
	if domain == "" {
		return 0.25
	}
	if _, ok := recognizedDomains[domain]; ok {
		return 1.0
	}
	return 0.5
}

func formatValidity(item entities.Item) float64 {
	if _, ok := supportedFormats[strings.ToLower(item.Format)]; ok {
		return 1.0
	}
	return 0.0
}

func metadataQuality(item entities.Item) float64 {
	if len(item.Metadata) == 0 {
		return 0
	}
	present := 0
	for _, key := range entities.RecognizedMetadataKeys {
		if strings.TrimSpace(item.Metadata[key]) != "" {
			present++
		}
	}
	return float64(present) / float64(len(entities.RecognizedMetadataKeys))
}

// ModalityForFormat exposes the format-to-modality mapping to the classifier.
func ModalityForFormat(format string) (string, bool) {
	modality, ok := supportedFormats[strings.ToLower(format)]
	return modality, ok
}

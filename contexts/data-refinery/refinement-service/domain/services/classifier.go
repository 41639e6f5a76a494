package services

import (
	"strings"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

// MetadataClassifier is the default classification strategy: labels derived
// from the item format and supplied metadata. An item with no resolvable
// modality and no usable metadata is marked unclassified and excluded from
// the aggregate denominators; it never aborts the run.
type MetadataClassifier struct{}

func (MetadataClassifier) ClassifyItems(items []entities.Item) entities.ClassificationResult {
	result := entities.ClassificationResult{
		Unclassified: make(map[string]bool),
	}

	languages := map[string]int{}
	modalities := map[string]int{}
	domains := map[string]int{}
	contentTypes := map[string]int{}
	classified := 0

	for _, item := range items {
		modality, hasModality := ModalityForFormat(item.Format)
		if !hasModality && len(item.Metadata) == 0 {
			result.Unclassified[item.ItemID] = true
			result.ClassificationErrors++
			continue
		}
		if !hasModality {
			modality = "unknown"
		}

		languages[labelOrDefault(item.Metadata["language"], "unknown")]++
		modalities[modality]++
		domains[labelOrDefault(item.Metadata["domain"], "general")]++
		contentTypes[labelOrDefault(item.Metadata["content_type"], "unstructured")]++
		classified++
	}

	result.Distributions = entities.Classifications{
		Languages:    toDistribution(languages, classified),
		Modalities:   toDistribution(modalities, classified),
		Domains:      toDistribution(domains, classified),
		ContentTypes: toDistribution(contentTypes, classified),
	}
	return result
}

func labelOrDefault(value string, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

// toDistribution normalizes counts into shares over classified items, so each
// dimension sums to 1 when anything was classified.
func toDistribution(counts map[string]int, classified int) entities.LabelDistribution {
	distribution := make(entities.LabelDistribution, len(counts))
	if classified == 0 {
		return distribution
	}
	for label, count := range counts {
		distribution[label] = float64(count) / float64(classified)
	}
	return distribution
}

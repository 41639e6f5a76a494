package services

import (
	"math"
	"testing"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

func TestClassifyItemsDistributions(t *testing.T) {
	items := []entities.Item{
		{ItemID: "item-1", Format: "txt", Metadata: map[string]string{"language": "en", "domain": "legal", "content_type": "prose"}},
		{ItemID: "item-2", Format: "mp3", Metadata: map[string]string{"language": "en"}},
		{ItemID: "item-3", Format: "txt"},
	}

	result := MetadataClassifier{}.ClassifyItems(items)
	if result.ClassificationErrors != 0 {
		t.Fatalf("all items resolve a modality, got %d errors", result.ClassificationErrors)
	}

	dist := result.Distributions
	if math.Abs(dist.Languages["en"]-2.0/3.0) > 1e-9 || math.Abs(dist.Languages["unknown"]-1.0/3.0) > 1e-9 {
		t.Fatalf("language shares are off: %v", dist.Languages)
	}
	if math.Abs(dist.Modalities["text"]-2.0/3.0) > 1e-9 || math.Abs(dist.Modalities["audio"]-1.0/3.0) > 1e-9 {
		t.Fatalf("modality shares are off: %v", dist.Modalities)
	}
	if math.Abs(dist.Domains["general"]-2.0/3.0) > 1e-9 {
		t.Fatalf("missing domain should default to general: %v", dist.Domains)
	}
	if math.Abs(dist.ContentTypes["unstructured"]-2.0/3.0) > 1e-9 {
		t.Fatalf("missing content type should default to unstructured: %v", dist.ContentTypes)
	}
}

func TestClassifyItemsUnclassified(t *testing.T) {
	items := []entities.Item{
		{ItemID: "item-1", Format: "exe"},
		{ItemID: "item-2", Format: "exe", Metadata: map[string]string{"domain": "technical"}},
	}

	result := MetadataClassifier{}.ClassifyItems(items)
	if result.ClassificationErrors != 1 {
		t.Fatalf("expected one unclassifiable item, got %d", result.ClassificationErrors)
	}
	if !result.Unclassified["item-1"] {
		t.Fatalf("item with no modality and no metadata should be unclassified")
	}
	if result.Unclassified["item-2"] {
		t.Fatalf("metadata should rescue the unsupported format")
	}
	if result.Distributions.Modalities["unknown"] != 1.0 {
		t.Fatalf("rescued item should classify with unknown modality: %v", result.Distributions.Modalities)
	}
	if result.Distributions.Domains["technical"] != 1.0 {
		t.Fatalf("rescued item should keep its domain: %v", result.Distributions.Domains)
	}
}

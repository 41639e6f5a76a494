package services

import (
	"math"
	"testing"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

func TestScoreItemsEmptySetNotApplicable(t *testing.T) {
	result := HeuristicScorer{}.ScoreItems(nil)
	if !result.NotApplicable {
		t.Fatalf("empty set should score not_applicable")
	}
	if result.OverallQuality != 0 {
		t.Fatalf("not_applicable overall should be zero, got %f", result.OverallQuality)
	}
}

func TestScoreItemsFullMarks(t *testing.T) {
	item := entities.Item{
		ItemID:      "item-1",
		ContentHash: "hash-1",
		Descriptor:  "annotated english news articles",
		SizeBytes:   128,
		Format:      "txt",
		Metadata: map[string]string{
			"language":     "en",
			"domain":       "technical",
			"content_type": "prose",
			"license":      "cc-by",
			"source":       "crawl",
			"collected_at": "2026-01-01",
		},
	}

	result := HeuristicScorer{}.ScoreItems([]entities.Item{item})
	if result.ScoringErrors != 0 {
		t.Fatalf("readable item should not count a scoring error")
	}
	metrics := result.PerItem["item-1"]
	if metrics.OverallQuality != 1.0 {
		t.Fatalf("expected a perfect score, got %f (%+v)", metrics.OverallQuality, metrics.Scores)
	}
	if result.OverallQuality != 1.0 {
		t.Fatalf("aggregate should match the single item, got %f", result.OverallQuality)
	}
}

func TestScoreItemsDimensionHeuristics(t *testing.T) {
	item := entities.Item{
		ItemID:      "item-1",
		ContentHash: "hash-1",
		Descriptor:  "data data data data",
		SizeBytes:   64,
		Format:      "exe",
	}

	result := HeuristicScorer{}.ScoreItems([]entities.Item{item})
	scores := result.PerItem["item-1"].Scores

	// Hash and size present, no descriptor bonus for the repeated tokens.
	if scores.Completeness != 1.0 {
		t.Fatalf("completeness should credit hash, size, and descriptor, got %f", scores.Completeness)
	}
	if scores.Clarity != 0.25 {
		t.Fatalf("one unique token in four should score 0.25 clarity, got %f", scores.Clarity)
	}
	if scores.Relevance != 0.25 {
		t.Fatalf("missing domain metadata should score 0.25 relevance, got %f", scores.Relevance)
	}
	if scores.FormatValidity != 0 {
		t.Fatalf("unsupported format should score 0, got %f", scores.FormatValidity)
	}
	if scores.MetadataQuality != 0 {
		t.Fatalf("no metadata should score 0, got %f", scores.MetadataQuality)
	}

	want := 0.20*1.0 + 0.25*0.25 + 0.25*0.25
	if math.Abs(result.PerItem["item-1"].OverallQuality-want) > 1e-9 {
		t.Fatalf("expected overall %f, got %f", want, result.PerItem["item-1"].OverallQuality)
	}
}

func TestScoreItemsUnreadableCountsError(t *testing.T) {
	items := []entities.Item{
		{ItemID: "item-1", Descriptor: "no hash at all", SizeBytes: 10, Format: "txt"},
		{ItemID: "item-2", ContentHash: "hash-2", Descriptor: "fine", SizeBytes: 10, Format: "txt"},
	}

	result := HeuristicScorer{}.ScoreItems(items)
	if result.ScoringErrors != 1 {
		t.Fatalf("expected one scoring error, got %d", result.ScoringErrors)
	}
	if !result.PerItem["item-1"].ScoringError {
		t.Fatalf("unreadable item should be flagged")
	}
	broken := result.PerItem["item-1"].Scores
	if broken.Completeness != 0 || broken.Clarity != 0 {
		t.Fatalf("unreadable item should zero the content dimensions: %+v", broken)
	}
}

func TestModalityForFormat(t *testing.T) {
	cases := map[string]string{
		"txt": "text", "JSON": "text",
		"mp3": "audio", "flac": "audio",
		"mp4": "video", "webm": "video",
		"jpeg": "image", "webp": "image",
	}
	for format, want := range cases {
		got, ok := ModalityForFormat(format)
		if !ok || got != want {
			t.Fatalf("format %s should map to %s, got %s (%v)", format, want, got, ok)
		}
	}
	if _, ok := ModalityForFormat("exe"); ok {
		t.Fatalf("unsupported format must not resolve a modality")
	}
}

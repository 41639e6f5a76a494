package services

import (
	"errors"
	"testing"
	"time"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
)

func TestFindDuplicatesExactKeepsEarliest(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []entities.Item{
		{ItemID: "item-2", ContentHash: "hash-same", IngestedAt: base.Add(time.Minute)},
		{ItemID: "item-1", ContentHash: "hash-same", IngestedAt: base},
	}

	duplicates, err := FindDuplicates(items, DefaultDedupThreshold, TokenJaccardSimilarity{})
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if duplicates["item-1"] {
		t.Fatalf("earliest item must be kept")
	}
	if !duplicates["item-2"] {
		t.Fatalf("later copy must be marked duplicate")
	}
}

func TestFindDuplicatesBreaksTimestampTiesOnID(t *testing.T) {
	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []entities.Item{
		{ItemID: "item-b", ContentHash: "hash-same", IngestedAt: at},
		{ItemID: "item-a", ContentHash: "hash-same", IngestedAt: at},
	}

	duplicates, err := FindDuplicates(items, DefaultDedupThreshold, TokenJaccardSimilarity{})
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if duplicates["item-a"] || !duplicates["item-b"] {
		t.Fatalf("smallest id should win the tie: %v", duplicates)
	}
}

func TestFindDuplicatesNearPass(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []entities.Item{
		{ItemID: "item-1", ContentHash: "hash-1", Descriptor: "quarterly earnings report fiscal 2026", IngestedAt: base},
		{ItemID: "item-2", ContentHash: "hash-2", Descriptor: "quarterly earnings report fiscal 2026", IngestedAt: base.Add(time.Minute)},
		{ItemID: "item-3", ContentHash: "hash-3", Descriptor: "completely different travel blog", IngestedAt: base.Add(2 * time.Minute)},
	}

	duplicates, err := FindDuplicates(items, DefaultDedupThreshold, TokenJaccardSimilarity{})
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if duplicates["item-1"] || !duplicates["item-2"] {
		t.Fatalf("identical descriptors should mark only the later item: %v", duplicates)
	}
	if duplicates["item-3"] {
		t.Fatalf("unrelated descriptor must survive")
	}
}

func TestFindDuplicatesRejectsBadThreshold(t *testing.T) {
	_, err := FindDuplicates(nil, 1.5, TokenJaccardSimilarity{})
	if !errors.Is(err, domainerrors.ErrInvalidThreshold) {
		t.Fatalf("expected invalid threshold, got %v", err)
	}
}

func TestTokenJaccardSimilarity(t *testing.T) {
	a := entities.Item{Descriptor: "alpha beta gamma"}
	b := entities.Item{Descriptor: "ALPHA beta delta"}
	got := TokenJaccardSimilarity{}.Similarity(a, b)
	if got != 0.5 {
		t.Fatalf("two of four tokens shared should score 0.5, got %f", got)
	}

	empty := entities.Item{}
	if score := (TokenJaccardSimilarity{}).Similarity(empty, empty); score != 0 {
		t.Fatalf("empty descriptors should score 0, got %f", score)
	}
}

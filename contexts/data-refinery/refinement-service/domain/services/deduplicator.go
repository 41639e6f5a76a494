package services

import (
	"sort"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
)

// DefaultDedupThreshold is the documented near-duplicate similarity cutoff.
const DefaultDedupThreshold = 0.95

// Similarity is the pairwise near-duplicate scoring contract.
type Similarity interface {
	Similarity(a, b entities.Item) float64
}

// DuplicateSet is the union of both dedup passes, keyed by item id.
type DuplicateSet map[string]bool

// FindDuplicates runs the two-pass deduplication: exact grouping by content
// hash unioned with pairwise near-duplicate detection at the given threshold.
// Within any duplicate relation the earliest-ingested item is kept, with the
// lexicographically smallest id breaking timestamp ties. The result is a pure
// function of the input and threshold, so reruns reproduce the same set.
func FindDuplicates(items []entities.Item, threshold float64, similarity Similarity) (DuplicateSet, error) {
	if threshold < 0 || threshold > 1 {
		return nil, domainerrors.ErrInvalidThreshold
	}

	ordered := make([]entities.Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].IngestedAt.Equal(ordered[j].IngestedAt) {
			return ordered[i].ItemID < ordered[j].ItemID
		}
		return ordered[i].IngestedAt.Before(ordered[j].IngestedAt)
	})

	duplicates := make(DuplicateSet)

	// Exact pass: first occurrence per content hash is the keeper.
	seenHashes := make(map[string]struct{}, len(ordered))
	for _, item := range ordered {
		if item.ContentHash == "" {
			continue
		}
		if _, seen := seenHashes[item.ContentHash]; seen {
			duplicates[item.ItemID] = true
			continue
		}
		seenHashes[item.ContentHash] = struct{}{}
	}

	// Near pass: every ordered pair, later item marked when similar enough.
	for i := 0; i < len(ordered); i++ {
		if duplicates[ordered[i].ItemID] {
			continue
		}
		for j := i + 1; j < len(ordered); j++ {
			if duplicates[ordered[j].ItemID] {
				continue
			}
			if similarity.Similarity(ordered[i], ordered[j]) >= threshold {
				duplicates[ordered[j].ItemID] = true
			}
		}
	}

	return duplicates, nil
}

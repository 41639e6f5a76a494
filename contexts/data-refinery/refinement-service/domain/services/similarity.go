package services

import (
	"strings"

	"refinery/contexts/data-refinery/refinement-service/domain/entities"
)

// TokenJaccardSimilarity is the default near-duplicate strategy: Jaccard
// similarity over the token sets of two item descriptors. Deterministic and
// symmetric; identical descriptors score 1.
type TokenJaccardSimilarity struct{}

func (TokenJaccardSimilarity) Similarity(a, b entities.Item) float64 {
	setA := tokenSet(a.Descriptor)
	setB := tokenSet(b.Descriptor)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(descriptor string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(descriptor))
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

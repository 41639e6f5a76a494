package entities

// ScoringResult is the output contract of a quality scoring strategy.
type ScoringResult struct {
	PerItem        map[string]ItemMetrics
	Aggregate      DimensionScores
	OverallQuality float64
	NotApplicable  bool
	ScoringErrors  int
}

// ClassificationResult aggregates label distributions over classified items.
// Unclassified items are excluded from every distribution denominator.
type ClassificationResult struct {
	Distributions        Classifications
	Unclassified         map[string]bool
	ClassificationErrors int
}

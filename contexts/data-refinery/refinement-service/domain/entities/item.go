package entities

import "time"

type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusPassed   ItemStatus = "passed"
	ItemStatusRejected ItemStatus = "rejected"
)

type RejectionReason string

const (
	RejectionLowQuality RejectionReason = "low_quality"
	RejectionDuplicate  RejectionReason = "duplicate"
)

// ItemMetrics holds the per-item outcome of the latest refinement run.
type ItemMetrics struct {
	Scores         DimensionScores
	OverallQuality float64
	Duplicate      bool
	ScoringError   bool
}

type Item struct {
	ItemID          string
	DatasetID       string
	Name            string
	ContentHash     string
	Descriptor      string
	SizeBytes       int64
	Format          string
	Metadata        map[string]string
	Position        int
	IngestedAt      time.Time
	Status          ItemStatus
	RejectionReason RejectionReason
	Metrics         ItemMetrics
}

// Readable reports whether the item content descriptor can be analyzed.
// Items with a missing content hash, or with payload bytes but no readable
// descriptor, are treated as corrupt by the scoring pass.
func (i Item) Readable() bool {
	if i.ContentHash == "" {
		return false
	}
	if i.SizeBytes > 0 && i.Descriptor == "" {
		return false
	}
	return true
}

package entities

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// Review is unique per (listing, reviewer). A repeated submission replaces
// the previous rating and comment in place.
type Review struct {
	ReviewID   string
	ListingID  string
	ReviewerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

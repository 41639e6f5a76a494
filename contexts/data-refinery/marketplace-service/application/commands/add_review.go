package commands

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type AddReviewCommand struct {
	ListingID  string
	ReviewerID string
	Rating     int
	Comment    string
}

type AddReviewResult struct {
	Review  entities.Review
	Created bool
}

// AddReviewUseCase upserts the reviewer's rating. The rating is validated
// before any write, and the listing's aggregates are recomputed from the full
// review set atomically with the upsert.
type AddReviewUseCase struct {
	Listings    ports.ListingRepository
	Reviews     ports.ReviewRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AddReviewUseCase) Execute(ctx context.Context, cmd AddReviewCommand) (AddReviewResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ListingID) == "" || strings.TrimSpace(cmd.ReviewerID) == "" {
		return AddReviewResult{}, domainerrors.ErrInvalidListingRequest
	}
	if !entities.ValidRating(cmd.Rating) {
		return AddReviewResult{}, domainerrors.ErrInvalidRating
	}

	if _, err := u.Listings.GetListing(ctx, cmd.ListingID); err != nil {
		return AddReviewResult{}, err
	}

	reviewID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return AddReviewResult{}, err
	}
	now := u.Clock.Now().UTC()

	review, created, err := u.Reviews.UpsertReview(ctx, entities.Review{
		ReviewID:   reviewID,
		ListingID:  cmd.ListingID,
		ReviewerID: cmd.ReviewerID,
		Rating:     cmd.Rating,
		Comment:    cmd.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, now)
	if err != nil {
		logger.Error("add review failed",
			"event", "add_review_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"listing_id", cmd.ListingID,
			"error", err.Error(),
		)
		return AddReviewResult{}, err
	}

	logger.Info("review upserted",
		"event", "review_upserted",
		"module", "data-refinery/marketplace-service",
		"layer", "application",
		"listing_id", cmd.ListingID,
		"review_id", review.ReviewID,
		"created", created,
	)
	return AddReviewResult{Review: review, Created: created}, nil
}

package unit

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	curationhttp "refinery/contexts/data-refinery/curation-service/transport/http"
	marketplacehttp "refinery/contexts/data-refinery/marketplace-service/transport/http"
	refinementhttp "refinery/contexts/data-refinery/refinement-service/transport/http"
)

// stageRank orders the lifecycle. Reruns and retries pass through refining
// inside a single call, so the stage observed between operations never moves
// to a lower rank.
var stageRank = map[string]int{
	"ingested": 0,
	"stored":   1,
	"refining": 2,
	"refined":  3,
	"packaged": 4,
	"listed":   5,
	"sold":     6,
}

func TestStageOrderForwardOnlyUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for seq := 0; seq < 25; seq++ {
		stack := newStack(t)

		created, err := stack.Refinement.Handler.CreateDatasetHandler(context.Background(), refinementhttp.CreateDatasetRequest{
			OwnerID:    "owner-1",
			Name:       fmt.Sprintf("random-walk-%d", seq),
			SourceType: "crowd",
		})
		if err != nil {
			t.Fatalf("create dataset should succeed: %v", err)
		}
		datasetID := created.Dataset.DatasetID

		var packageID, listingID string
		lastRank := stageRank["ingested"]

		for step := 0; step < 12; step++ {
			op := rng.Intn(6)
			switch op {
			case 0:
				_, _ = stack.Refinement.Handler.IngestItemsHandler(context.Background(), datasetID, refinementhttp.IngestItemsRequest{
					Items: []refinementhttp.IngestItemDTO{
						strongItem(fmt.Sprintf("a-%d-%d", seq, step), fmt.Sprintf("hash-a-%d-%d", seq, step)),
						strongItem(fmt.Sprintf("b-%d-%d", seq, step), fmt.Sprintf("hash-b-%d-%d", seq, step)),
					},
				})
			case 1:
				_, _ = stack.Refinement.Handler.RefineDatasetHandler(context.Background(), datasetID, refinementhttp.RefineDatasetRequest{
					QualityThreshold: 0.5,
				})
			case 2:
				resp, err := stack.Curation.Handler.CreatePackageHandler(context.Background(), curationhttp.CreatePackageRequest{
					DatasetID:   datasetID,
					Name:        "random walk cut",
					Version:     "1.0.0",
					LicenseType: "research",
				})
				if err == nil {
					packageID = resp.Package.PackageID
				}
			case 3:
				if packageID == "" {
					continue
				}
				resp, err := stack.Marketplace.Handler.CreateListingHandler(context.Background(), "seller-1", marketplacehttp.CreateListingRequest{
					PackageID: packageID,
					Title:     "random walk listing",
					PriceUSD:  5.0,
				})
				if err == nil {
					listingID = resp.Listing.ListingID
				}
			case 4:
				if listingID == "" {
					continue
				}
				_, _ = stack.Marketplace.Handler.PublishListingHandler(context.Background(), listingID)
			case 5:
				if listingID == "" {
					continue
				}
				_, _ = stack.Marketplace.Handler.PurchaseHandler(context.Background(), listingID, "buyer-1", marketplacehttp.PurchaseRequest{Quantity: 1})
			}

			status, err := stack.Refinement.Handler.GetRefinementStatusHandler(context.Background(), datasetID)
			if err != nil {
				t.Fatalf("sequence %d step %d: status should succeed: %v", seq, step, err)
			}
			rank, known := stageRank[status.Stage]
			if !known {
				t.Fatalf("sequence %d step %d: unexpected stage %s", seq, step, status.Stage)
			}
			if rank < lastRank {
				t.Fatalf("sequence %d step %d: stage moved backward to %s (rank %d after %d)", seq, step, status.Stage, rank, lastRank)
			}
			lastRank = rank
		}
	}
}

package services

import (
	"testing"
	"time"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
)

func TestRelevanceScoreWeighsTitleDouble(t *testing.T) {
	listing := entities.MarketplaceListing{
		Title:       "english news corpus",
		Description: "clean english articles",
		Category:    "text",
		Tags:        []string{"news", "english"},
	}

	if got := RelevanceScore(listing, "english"); got != 4 {
		t.Fatalf("title, description, and tag hits should total 4, got %f", got)
	}
	if got := RelevanceScore(listing, "corpus"); got != 2 {
		t.Fatalf("title-only hit should score 2, got %f", got)
	}
	if got := RelevanceScore(listing, "podcast"); got != 0 {
		t.Fatalf("no match should score 0, got %f", got)
	}
	if got := RelevanceScore(listing, ""); got != 0 {
		t.Fatalf("empty query should score 0, got %f", got)
	}
}

func TestRankListingsByRelevance(t *testing.T) {
	items := []entities.MarketplaceListing{
		{ListingID: "lst-1", Description: "mentions corpus once"},
		{ListingID: "lst-2", Title: "corpus of corpora", Tags: []string{"corpus"}},
		{ListingID: "lst-3", Title: "unrelated"},
	}

	ranked := RankListings(items, "corpus", SortRelevance)
	if ranked[0].ListingID != "lst-2" || ranked[1].ListingID != "lst-1" || ranked[2].ListingID != "lst-3" {
		t.Fatalf("relevance order is off: %s %s %s", ranked[0].ListingID, ranked[1].ListingID, ranked[2].ListingID)
	}
}

func TestRankListingsSortModes(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []entities.MarketplaceListing{
		{ListingID: "lst-1", PriceUSD: 30, AverageRating: 3.0, PublishedAt: base},
		{ListingID: "lst-2", PriceUSD: 10, AverageRating: 5.0, PublishedAt: base.Add(time.Hour)},
		{ListingID: "lst-3", PriceUSD: 20, AverageRating: 4.0, PublishedAt: base.Add(2 * time.Hour)},
	}

	asc := RankListings(items, "", SortPriceAsc)
	if asc[0].PriceUSD != 10 || asc[2].PriceUSD != 30 {
		t.Fatalf("price_asc order is off")
	}

	desc := RankListings(items, "", SortPriceDesc)
	if desc[0].PriceUSD != 30 || desc[2].PriceUSD != 10 {
		t.Fatalf("price_desc order is off")
	}

	rating := RankListings(items, "", SortRating)
	if rating[0].AverageRating != 5.0 {
		t.Fatalf("rating sort should lead with the best rated")
	}

	recent := RankListings(items, "", SortRecent)
	if recent[0].ListingID != "lst-3" {
		t.Fatalf("recent sort should lead with the newest publish")
	}
}

func TestRankListingsDeterministicTieBreak(t *testing.T) {
	items := []entities.MarketplaceListing{
		{ListingID: "lst-b", PriceUSD: 10},
		{ListingID: "lst-a", PriceUSD: 10},
	}

	for i := 0; i < 3; i++ {
		ranked := RankListings(items, "", SortPriceAsc)
		if ranked[0].ListingID != "lst-a" {
			t.Fatalf("ties must break on ascending listing id")
		}
	}
}

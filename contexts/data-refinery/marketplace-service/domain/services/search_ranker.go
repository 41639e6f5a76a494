package services

import (
	"sort"
	"strings"

	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
)

const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
	SortRecent    = "recent"
)

// RelevanceScore counts query-term matches across title, description,
// category, and tags. Title hits weigh double. A zero score means no term
// matched.
func RelevanceScore(listing entities.MarketplaceListing, query string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(listing.Title)
	description := strings.ToLower(listing.Description)
	category := strings.ToLower(listing.Category)
	tags := make([]string, 0, len(listing.Tags))
	for _, tag := range listing.Tags {
		tags = append(tags, strings.ToLower(tag))
	}

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 2
		}
		if strings.Contains(description, term) {
			score++
		}
		if strings.Contains(category, term) {
			score++
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				score++
				break
			}
		}
	}
	return score
}

// RankListings orders listings for search results. Every mode breaks ties on
// ascending listing id so pagination is stable across identical requests.
func RankListings(items []entities.MarketplaceListing, query string, sortMode string) []entities.MarketplaceListing {
	ranked := make([]entities.MarketplaceListing, len(items))
	copy(ranked, items)

	less := func(i, j int) bool {
		return ranked[i].ListingID < ranked[j].ListingID
	}
	switch sortMode {
	case SortPriceAsc:
		less = func(i, j int) bool {
			if ranked[i].PriceUSD != ranked[j].PriceUSD {
				return ranked[i].PriceUSD < ranked[j].PriceUSD
			}
			return ranked[i].ListingID < ranked[j].ListingID
		}
	case SortPriceDesc:
		less = func(i, j int) bool {
			if ranked[i].PriceUSD != ranked[j].PriceUSD {
				return ranked[i].PriceUSD > ranked[j].PriceUSD
			}
			return ranked[i].ListingID < ranked[j].ListingID
		}
	case SortRating:
		less = func(i, j int) bool {
			if ranked[i].AverageRating != ranked[j].AverageRating {
				return ranked[i].AverageRating > ranked[j].AverageRating
			}
			return ranked[i].ListingID < ranked[j].ListingID
		}
	case SortRecent:
		less = func(i, j int) bool {
			if !ranked[i].PublishedAt.Equal(ranked[j].PublishedAt) {
				return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
			}
			return ranked[i].ListingID < ranked[j].ListingID
		}
	default:
		scores := make(map[string]float64, len(ranked))
		for _, listing := range ranked {
			scores[listing.ListingID] = RelevanceScore(listing, query)
		}
		less = func(i, j int) bool {
			si, sj := scores[ranked[i].ListingID], scores[ranked[j].ListingID]
			if si != sj {
				return si > sj
			}
			return ranked[i].ListingID < ranked[j].ListingID
		}
	}

	sort.SliceStable(ranked, less)
	return ranked
}

package httptransport

type CreateListingRequest struct {
	PackageID   string   `json:"package_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PriceUSD    float64  `json:"price_usd"`
	SupplyLimit int      `json:"supply_limit,omitempty"`
}

type ListingDTO struct {
	ListingID             string   `json:"listing_id"`
	PackageID             string   `json:"package_id"`
	SellerID              string   `json:"seller_id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description,omitempty"`
	Category              string   `json:"category,omitempty"`
	Tags                  []string `json:"tags,omitempty"`
	PriceUSD              float64  `json:"price_usd"`
	Status                string   `json:"status"`
	SupplyRemaining       int      `json:"supply_remaining"`
	CopiesSold            int      `json:"copies_sold"`
	ViewCount             int      `json:"view_count"`
	DownloadCount         int      `json:"download_count"`
	AverageRating         float64  `json:"average_rating"`
	ReviewCount           int      `json:"review_count"`
	BulkDiscountThreshold int      `json:"bulk_discount_threshold"`
	BulkDiscountRate      float64  `json:"bulk_discount_rate"`
	PublishedAt           string   `json:"published_at,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type CreateListingResponse struct {
	Listing ListingDTO `json:"listing"`
}

type PublishListingResponse struct {
	Listing ListingDTO `json:"listing"`
}

type DelistListingResponse struct {
	Listing ListingDTO `json:"listing"`
}

type SearchListingsRequest struct {
	Query     string   `json:"query,omitempty"`
	Category  string   `json:"category,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Cursor    string   `json:"cursor,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

type SearchListingsResponse struct {
	Items      []ListingDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type ReviewDTO struct {
	ReviewID   string `json:"review_id"`
	ListingID  string `json:"listing_id"`
	ReviewerID string `json:"reviewer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type GetListingResponse struct {
	Listing ListingDTO  `json:"listing"`
	Reviews []ReviewDTO `json:"reviews"`
}

type PurchaseRequest struct {
	// Quantity defaults to a single copy when omitted.
	Quantity int `json:"quantity,omitempty"`
}

type SaleDTO struct {
	SaleID             string  `json:"sale_id"`
	ListingID          string  `json:"listing_id"`
	PackageID          string  `json:"package_id"`
	BuyerID            string  `json:"buyer_id"`
	Quantity           int     `json:"quantity"`
	AmountUSD          float64 `json:"amount_usd"`
	AccessToken        string  `json:"access_token"`
	DownloadsRemaining int     `json:"downloads_remaining"`
	LicenseExpiresAt   string  `json:"license_expires_at"`
	CreatedAt          string  `json:"created_at"`
}

type PurchaseResponse struct {
	Sale    SaleDTO    `json:"sale"`
	Listing ListingDTO `json:"listing"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type AddReviewResponse struct {
	Review  ReviewDTO `json:"review"`
	Created bool      `json:"created"`
}

type GetPurchaseResponse struct {
	Sale SaleDTO `json:"sale"`
}

type ListSalesResponse struct {
	Items []SaleDTO `json:"items"`
}

type MarketplaceStatsResponse struct {
	TotalListings     int     `json:"total_listings"`
	PublishedListings int     `json:"published_listings"`
	TotalSales        int     `json:"total_sales"`
	TotalRevenueUSD   float64 `json:"total_revenue_usd"`
	AverageRating     float64 `json:"average_rating"`
	TotalReviews      int     `json:"total_reviews"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

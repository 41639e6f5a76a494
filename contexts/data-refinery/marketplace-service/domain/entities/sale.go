package entities

import "time"

// UnlimitedDownloads marks a sale whose access never exhausts.
const UnlimitedDownloads = -1

// Sale is an immutable purchase record. The access token is the buyer's
// credential for retrieving the package export.
type Sale struct {
	SaleID             string
	ListingID          string
	PackageID          string
	BuyerID            string
	Quantity           int
	AmountUSD          float64
	AccessToken        string
	DownloadsRemaining int
	LicenseExpiresAt   time.Time
	CreatedAt          time.Time
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	marketplaceerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	marketplacehttp "refinery/contexts/data-refinery/marketplace-service/transport/http"
)

func (s *Server) registerMarketplaceRoutes() {
	s.mux.HandleFunc("POST /refinery/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /refinery/listings", s.handleSearchListings)
	s.mux.HandleFunc("GET /refinery/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("POST /refinery/listings/{listing_id}/publish", s.handlePublishListing)
	s.mux.HandleFunc("POST /refinery/listings/{listing_id}/delist", s.handleDelistListing)
	s.mux.HandleFunc("POST /refinery/listings/{listing_id}/purchase", s.handlePurchase)
	s.mux.HandleFunc("POST /refinery/listings/{listing_id}/reviews", s.handleAddReview)
	s.mux.HandleFunc("GET /refinery/purchases", s.handleListSales)
	s.mux.HandleFunc("GET /refinery/purchases/{sale_id}", s.handleGetPurchase)
	s.mux.HandleFunc("GET /refinery/marketplace/stats", s.handleMarketplaceStats)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	sellerID := r.Header.Get("X-User-Id")
	if sellerID == "" {
		writeMarketplaceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req marketplacehttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.CreateListingHandler(r.Context(), sellerID, req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSearchListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := marketplacehttp.SearchListingsRequest{
		Query:    query.Get("query"),
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
		Cursor:   query.Get("cursor"),
	}

	if raw := query.Get("min_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMarketplaceError(w, http.StatusBadRequest, "invalid_min_price", "min_price must be a number")
			return
		}
		req.MinPrice = &value
	}
	if raw := query.Get("max_price"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMarketplaceError(w, http.StatusBadRequest, "invalid_max_price", "max_price must be a number")
			return
		}
		req.MaxPrice = &value
	}
	if raw := query.Get("min_rating"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMarketplaceError(w, http.StatusBadRequest, "invalid_min_rating", "min_rating must be a number")
			return
		}
		req.MinRating = value
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeMarketplaceError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := s.marketplace.Handler.SearchListingsHandler(r.Context(), req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("listing_id")
	resp, err := s.marketplace.Handler.GetListingHandler(r.Context(), listingID)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePublishListing(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("listing_id")
	resp, err := s.marketplace.Handler.PublishListingHandler(r.Context(), listingID)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelistListing(w http.ResponseWriter, r *http.Request) {
	listingID := r.PathValue("listing_id")
	resp, err := s.marketplace.Handler.DelistListingHandler(r.Context(), listingID)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	buyerID := r.Header.Get("X-User-Id")
	if buyerID == "" {
		writeMarketplaceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req marketplacehttp.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	listingID := r.PathValue("listing_id")
	resp, err := s.marketplace.Handler.PurchaseHandler(r.Context(), listingID, buyerID, req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	reviewerID := r.Header.Get("X-User-Id")
	if reviewerID == "" {
		writeMarketplaceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req marketplacehttp.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	listingID := r.PathValue("listing_id")
	resp, err := s.marketplace.Handler.AddReviewHandler(r.Context(), listingID, reviewerID, req)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	buyerID := r.Header.Get("X-User-Id")
	if buyerID == "" {
		writeMarketplaceError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.marketplace.Handler.ListSalesHandler(r.Context(), buyerID)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	saleID := r.PathValue("sale_id")
	resp, err := s.marketplace.Handler.GetPurchaseHandler(r.Context(), saleID)
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketplaceStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.StatsHandler(r.Context())
	if err != nil {
		writeMarketplaceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMarketplaceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketplaceerrors.ErrListingNotFound):
		writeMarketplaceError(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, marketplaceerrors.ErrSaleNotFound):
		writeMarketplaceError(w, http.StatusNotFound, "sale_not_found", err.Error())
	case errors.Is(err, marketplaceerrors.ErrInvalidListingRequest):
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_listing_request", err.Error())
	case errors.Is(err, marketplaceerrors.ErrInvalidQuantity):
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, marketplaceerrors.ErrInvalidRating):
		writeMarketplaceError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, marketplaceerrors.ErrListingNotPublished):
		writeMarketplaceError(w, http.StatusConflict, "listing_not_published", err.Error())
	case errors.Is(err, marketplaceerrors.ErrListingStatusConflict):
		writeMarketplaceError(w, http.StatusConflict, "listing_status_conflict", err.Error())
	case errors.Is(err, marketplaceerrors.ErrSoldOut):
		writeMarketplaceError(w, http.StatusConflict, "sold_out", err.Error())
	case errors.Is(err, marketplaceerrors.ErrPackageUnavailable):
		writeMarketplaceError(w, http.StatusGone, "package_unavailable", err.Error())
	default:
		writeMarketplaceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMarketplaceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, marketplacehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

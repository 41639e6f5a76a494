package queries

import (
	"context"
	"log/slog"
	"strings"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	domainerrors "refinery/contexts/data-refinery/marketplace-service/domain/errors"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type ListSalesQuery struct {
	BuyerID string
}

type ListSalesResult struct {
	Items []entities.Sale
}

type ListSalesUseCase struct {
	Sales  ports.SaleRepository
	Logger *slog.Logger
}

func (u ListSalesUseCase) Execute(ctx context.Context, query ListSalesQuery) (ListSalesResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(query.BuyerID) == "" {
		return ListSalesResult{}, domainerrors.ErrInvalidListingRequest
	}

	items, err := u.Sales.ListSalesByBuyer(ctx, query.BuyerID)
	if err != nil {
		logger.Error("list sales failed",
			"event", "list_sales_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"buyer_id", query.BuyerID,
			"error", err.Error(),
		)
		return ListSalesResult{}, err
	}
	return ListSalesResult{Items: items}, nil
}

package queries

import (
	"context"
	"log/slog"

	application "refinery/contexts/data-refinery/marketplace-service/application"
	"refinery/contexts/data-refinery/marketplace-service/domain/entities"
	"refinery/contexts/data-refinery/marketplace-service/ports"
)

type GetPurchaseQuery struct {
	SaleID string
}

type GetPurchaseResult struct {
	Sale entities.Sale
}

type GetPurchaseUseCase struct {
	Sales  ports.SaleRepository
	Logger *slog.Logger
}

func (u GetPurchaseUseCase) Execute(ctx context.Context, query GetPurchaseQuery) (GetPurchaseResult, error) {
	logger := application.ResolveLogger(u.Logger)

	sale, err := u.Sales.GetSale(ctx, query.SaleID)
	if err != nil {
		logger.Error("get purchase failed",
			"event", "get_purchase_failed",
			"module", "data-refinery/marketplace-service",
			"layer", "application",
			"sale_id", query.SaleID,
			"error", err.Error(),
		)
		return GetPurchaseResult{}, err
	}
	return GetPurchaseResult{Sale: sale}, nil
}

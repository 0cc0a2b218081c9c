package usecase

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
)

// A product counts as already stocked when the household holds more than
// this multiple of its mean reorder threshold across all locations.
const stockedMultiplier = 2.0

// determineMatchType classifies a product the moment it enters the cart.
// A product sitting unchecked on the referenced list is PLANNED regardless
// of stock; otherwise the stock summary decides between ALREADY_STOCKED
// and EXTRA. The result is stored on the cart line and never recomputed.
func (uc *sessionUseCase) determineMatchType(ctx context.Context, householdID, productID string, listID *string) (model.MatchType, error) {
	if listID != nil && *listID != "" {
		item, err := uc.listRepo.FindItemByProduct(ctx, *listID, productID)
		if err != nil {
			return "", err
		}
		if item != nil && !item.Checked {
			return model.MatchPlanned, nil
		}
	}

	summary, err := uc.inventory.StockSummary(ctx, householdID, productID)
	if err != nil {
		return "", err
	}
	if summary.TotalOnHand > stockedMultiplier*summary.MeanReorderThreshold {
		return model.MatchAlreadyStocked, nil
	}
	return model.MatchExtra, nil
}

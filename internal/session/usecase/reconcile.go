package usecase

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/session/dto"
)

// Reconcile diffs the cart against the planned list without writing
// anything, so it can be called any number of times before completion.
func (uc *sessionUseCase) Reconcile(ctx context.Context, sessionID string, listID *string) (*dto.Reconciliation, error) {
	s, err := uc.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rec := &dto.Reconciliation{
		Planned:        []model.CartItem{},
		Extra:          []model.CartItem{},
		AlreadyStocked: []model.CartItem{},
		Missing:        []model.ShoppingListItem{},
	}

	inCart := make(map[string]struct{}, len(s.CartItems))
	for _, line := range s.CartItems {
		inCart[line.ProductID] = struct{}{}
		switch line.MatchType {
		case model.MatchPlanned:
			rec.Planned = append(rec.Planned, line)
		case model.MatchAlreadyStocked:
			rec.AlreadyStocked = append(rec.AlreadyStocked, line)
		default:
			rec.Extra = append(rec.Extra, line)
		}
	}

	if listID != nil && *listID != "" {
		unchecked, err := uc.listRepo.FindUnchecked(ctx, *listID)
		if err != nil {
			return nil, err
		}
		for _, item := range unchecked {
			if _, ok := inCart[item.ProductID]; !ok {
				rec.Missing = append(rec.Missing, item)
			}
		}
	}

	rec.Summary = dto.CompletionSummary{
		PlannedCount:        len(rec.Planned),
		ExtraCount:          len(rec.Extra),
		AlreadyStockedCount: len(rec.AlreadyStocked),
		MissingCount:        len(rec.Missing),
		EstimatedTotal:      s.EstimatedTotal(),
	}
	return rec, nil
}

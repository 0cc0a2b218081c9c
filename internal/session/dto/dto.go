package dto

import "github.com/hearthstock/shopping-service/internal/model"

// Reconciliation is the read-only four-way diff between the cart and the
// planned list. Cart lines fall into buckets by their frozen match type;
// Missing is derived from the list at read time.
type Reconciliation struct {
	Planned        []model.CartItem         `json:"planned"`
	Extra          []model.CartItem         `json:"extra"`
	AlreadyStocked []model.CartItem         `json:"already_stocked"`
	Missing        []model.ShoppingListItem `json:"missing"`
	Summary        CompletionSummary        `json:"summary"`
}

// CompletionSummary previews the effect of committing the cart.
type CompletionSummary struct {
	PlannedCount        int     `json:"planned_count"`
	ExtraCount          int     `json:"extra_count"`
	AlreadyStockedCount int     `json:"already_stocked_count"`
	MissingCount        int     `json:"missing_count"`
	EstimatedTotal      float64 `json:"estimated_total"`
}

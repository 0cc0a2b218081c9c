package dto

import "time"

type PurchaseFilters struct {
	HouseholdID string
	StoreLabel  string
	SearchQuery string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

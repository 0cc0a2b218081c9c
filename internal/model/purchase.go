package model

import "time"

type PurchaseLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Unit        Unit    `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	Category    string  `json:"category,omitempty"`
}

// PurchaseTransaction is the immutable ledger record written once per
// completed session. SessionID is a back-reference, not an ownership link.
type PurchaseTransaction struct {
	ID          string         `db:"id" json:"id"`
	HouseholdID string         `db:"household_id" json:"household_id"`
	SessionID   string         `db:"session_id" json:"session_id"`
	StoreLabel  *string        `db:"store_label" json:"store_label,omitempty"`
	PurchasedAt time.Time      `db:"purchased_at" json:"purchased_at"`
	Lines       []PurchaseLine `db:"-" json:"lines"`
	Total       float64        `db:"total" json:"total"`
}

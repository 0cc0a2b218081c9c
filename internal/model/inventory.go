package model

import "time"

type InventoryItem struct {
	ID               string    `db:"id" json:"id"`
	HouseholdID      string    `db:"household_id" json:"household_id"`
	ProductID        string    `db:"product_id" json:"product_id"`
	Location         string    `db:"location" json:"location"`
	QuantityOnHand   float64   `db:"quantity_on_hand" json:"quantity_on_hand"`
	Unit             Unit      `db:"unit" json:"unit"`
	ReorderThreshold float64   `db:"reorder_threshold" json:"reorder_threshold"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// StockSummary aggregates a product's inventory rows across locations.
type StockSummary struct {
	ProductID            string  `json:"product_id"`
	TotalOnHand          float64 `json:"total_on_hand"`
	MeanReorderThreshold float64 `json:"mean_reorder_threshold"`
	Locations            int     `json:"locations"`
}

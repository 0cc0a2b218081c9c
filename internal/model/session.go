package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
)

// MatchType classifies a cart line against the planned list and current
// stock. It is assigned once when the line enters the cart and never
// recomputed afterwards.
type MatchType string

const (
	MatchPlanned        MatchType = "PLANNED"
	MatchExtra          MatchType = "EXTRA"
	MatchAlreadyStocked MatchType = "ALREADY_STOCKED"
)

// CartItem is one scanned product line. It lives only inside a session's
// cart document and is unique by ProductID within that cart.
type CartItem struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	Unit        Unit      `json:"unit"`
	UnitPrice   *float64  `json:"unit_price,omitempty"`
	TotalPrice  *float64  `json:"total_price,omitempty"`
	Category    string    `json:"category,omitempty"`
	MatchType   MatchType `json:"match_type"`
	AddedAt     time.Time `json:"added_at"`
}

// RecalcTotal refreshes TotalPrice from Quantity and UnitPrice.
// A line without a unit price has no total.
func (c *CartItem) RecalcTotal() {
	if c.UnitPrice == nil {
		c.TotalPrice = nil
		return
	}
	t := *c.UnitPrice * c.Quantity
	c.TotalPrice = &t
}

type ShoppingSession struct {
	ID          string        `db:"id" json:"id"`
	HouseholdID string        `db:"household_id" json:"household_id"`
	StoreLabel  *string       `db:"store_label" json:"store_label,omitempty"`
	Status      SessionStatus `db:"status" json:"status"`
	CartItems   []CartItem    `db:"-" json:"cart_items"`
	// CartRevision increments on every cart replacement; a write carrying
	// a stale revision is rejected.
	CartRevision int64      `db:"cart_revision" json:"cart_revision"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

func (s *ShoppingSession) FindCartItem(productID string) *CartItem {
	for i := range s.CartItems {
		if s.CartItems[i].ProductID == productID {
			return &s.CartItems[i]
		}
	}
	return nil
}

// EstimatedTotal sums TotalPrice across cart lines; unpriced lines count as zero.
func (s *ShoppingSession) EstimatedTotal() float64 {
	var total float64
	for i := range s.CartItems {
		if s.CartItems[i].TotalPrice != nil {
			total += *s.CartItems[i].TotalPrice
		}
	}
	return total
}

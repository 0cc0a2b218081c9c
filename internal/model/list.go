package model

type ShoppingList struct {
	BaseModel
	HouseholdID string             `db:"household_id" json:"household_id"`
	Name        string             `db:"name" json:"name"`
	IsActive    bool               `db:"is_active" json:"is_active"`
	Items       []ShoppingListItem `db:"-" json:"items,omitempty"` // Joined data, not in DB row
}

// ItemOrigin records how a list item came to exist.
const (
	OriginManual     = "manual"
	OriginSuggestion = "suggestion"
)

type ShoppingListItem struct {
	BaseModel
	ListID         string  `db:"list_id" json:"list_id"`
	ProductID      string  `db:"product_id" json:"product_id"`
	ProductName    string  `db:"product_name" json:"product_name"`
	QuantityNeeded float64 `db:"quantity_needed" json:"quantity_needed"`
	Unit           Unit    `db:"unit" json:"unit"`
	Checked        bool    `db:"checked" json:"checked"`
	Priority       int     `db:"priority" json:"priority"`
	Reason         *string `db:"reason" json:"reason,omitempty"`
	Origin         string  `db:"origin" json:"origin"`
}

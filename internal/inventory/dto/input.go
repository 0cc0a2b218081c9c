package dto

type InventoryFilters struct {
	HouseholdID string
	ProductID   string
	Location    string
	LowStock    bool // quantity_on_hand <= reorder_threshold AND reorder_threshold > 0
	Page        int
	PageSize    int
}

type UpsertItemInput struct {
	HouseholdID      string
	ProductID        string
	Location         string
	QuantityOnHand   float64
	Unit             string
	ReorderThreshold float64
}

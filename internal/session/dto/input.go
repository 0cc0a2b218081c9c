package dto

type StartSessionInput struct {
	HouseholdID string
	StoreLabel  *string
}

type AddToCartInput struct {
	SessionID   string
	ListID      *string
	ProductID   string
	ProductName string
	Quantity    float64
	Unit        string
	UnitPrice   *float64
	Category    string
}

type CompleteInput struct {
	SessionID string
	ListID    *string
	Location  string
}

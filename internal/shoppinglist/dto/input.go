package dto

type CreateListInput struct {
	HouseholdID string
	Name        string
}

type UpdateListInput struct {
	ID       string
	Name     string
	IsActive bool
}

type AddItemInput struct {
	ListID      string
	ProductID   string
	ProductName string
	Quantity    float64
	Unit        string
	Priority    int
	Reason      string
	Origin      string // "manual" or "suggestion"
}

type UpdateItemInput struct {
	ID       string
	Quantity float64
	Unit     string
	Priority int
	Reason   string
}

type ListFilters struct {
	HouseholdID string
	IsActive    *bool
	Page        int
	PageSize    int
}

type ItemFilters struct {
	ListID  string
	Checked *bool
	Origin  string
}

package models

import "time"

const (
	CategoryGroceries   = "Groceries"
	CategoryLeisure     = "Leisure"
	CategoryElectronics = "Electronics"
	CategoryUtilities   = "Utilities"
	CategoryClothing    = "Clothing"
	CategoryHealth      = "Health"
	CategoryOthers      = "Others"
)

var ExpenseCategories = []string{
	CategoryGroceries,
	CategoryLeisure,
	CategoryElectronics,
	CategoryUtilities,
	CategoryClothing,
	CategoryHealth,
	CategoryOthers,
}

func ValidCategory(category string) bool {
	for _, c := range ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Expense keeps the receipt's object key; the short-lived presigned URL in
// ReceiptURL is derived from it on every read.
type Expense struct {
	ID               int64     `json:"id"`
	Category         string    `json:"category"`
	Amount           float64   `json:"amount"`
	Description      *string   `json:"description"`
	ReceiptObjectKey *string   `json:"-"`
	ReceiptURL       *string   `json:"receipt_url,omitempty"`
	ExpenseDate      time.Time `json:"expense_date"`
}

package models

import "github.com/shopspring/decimal"

// The two valid entry types. Anything else is rejected at write time, both
// by request binding and by a CHECK constraint on the table.
const (
	EntryTypeIncome  = "Income"
	EntryTypeExpense = "Expense"
)

type FinancialEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CategoryID  string          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	EntryType   string          `json:"entry_type"`
}

type EntryResponse struct {
	ID          string `json:"id"`
	User        string `json:"user"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        Date   `json:"date"`
	EntryType   string `json:"entry_type"`
	URL         string `json:"url"`
}

// EntryInCategory is the trimmed shape nested under a category.
type EntryInCategory struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        Date   `json:"date"`
	EntryType   string `json:"entry_type"`
	URL         string `json:"url"`
}

type CreateEntryRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Date        Date            `json:"date" binding:"required"`
	EntryType   string          `json:"entry_type" binding:"required,oneof=Income Expense"`
}

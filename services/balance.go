package services

import (
	"github.com/shopspring/decimal"

	"budget-tracker/models"
)

// Bilance computes the net balance of a category's entries: income adds,
// expense subtracts. Entry order does not matter and nothing is persisted.
// Unknown entry types cannot reach storage, but if one ever did it would
// contribute nothing here.
func Bilance(entries []models.FinancialEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		switch entry.EntryType {
		case models.EntryTypeIncome:
			total = total.Add(entry.Amount)
		case models.EntryTypeExpense:
			total = total.Sub(entry.Amount)
		}
	}
	return total
}

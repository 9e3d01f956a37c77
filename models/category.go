package models

type Category struct {
	ID       string `json:"id"`
	BudgetID string `json:"budget_id"`
	Name     string `json:"name"`
}

// CategoryResponse embeds the category's entries and the derived bilance.
// Bilance is never persisted; it is recomputed on every read.
type CategoryResponse struct {
	Budget           string            `json:"budget"`
	Name             string            `json:"name"`
	FinancialEntries []EntryInCategory `json:"financial_entries"`
	Bilance          string            `json:"bilance"`
	URL              string            `json:"url"`
}

type CreateCategoryRequest struct {
	Budget string `json:"budget" binding:"required"`
	Name   string `json:"name" binding:"required,max=100"`
}

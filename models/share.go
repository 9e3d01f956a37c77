package models

// BudgetUser is a sharing grant: the owner gives the visitor read access to
// one budget. It never carries write permission.
type BudgetUser struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	VisitorID string `json:"visitor_id"`
	BudgetID  string `json:"budget_id"`
}

type BudgetUserResponse struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	OwnerName   string `json:"owner_name"`
	Visitor     string `json:"visitor"`
	VisitorName string `json:"visitor_name"`
	Budget      string `json:"budget"`
	BudgetName  string `json:"budget_name"`
	URL         string `json:"url"`
}

type CreateBudgetUserRequest struct {
	Budget  string `json:"budget" binding:"required"`
	Visitor string `json:"visitor" binding:"required"`
	// Optional client-supplied owner, always overwritten with the actor.
	Owner string `json:"owner"`
}

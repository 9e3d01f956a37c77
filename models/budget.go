package models

import (
	"time"
)

type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BudgetResponse is the wire shape for a budget. Owner is the owner's
// username, User the owner's id; categories and visitors are self links.
type BudgetResponse struct {
	Owner           string          `json:"owner"`
	User            string          `json:"user"`
	Name            string          `json:"name"`
	SharedWithUsers []SharedVisitor `json:"shared_with_users"`
	Categories      []string        `json:"categories"`
	CreatedAt       time.Time       `json:"created_at"`
	URL             string          `json:"url"`
}

type SharedVisitor struct {
	Visitor string `json:"visitor"`
}

type CreateBudgetRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	// Optional client-supplied owner. Rejected whenever it differs from
	// the actor; empty means "the actor".
	User string `json:"user"`
}

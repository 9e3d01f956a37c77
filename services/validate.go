package services

import (
	"context"
	"database/sql"
)

// Validator enforces the ownership chain before any write commits: a
// category must live in a budget the actor owns, an entry must live in a
// category of such a budget, and a grant must be issued by the budget's
// owner. All checks run synchronously; a failed check means the write is
// never attempted.
//
// The read-then-write sequence is not protected against a concurrent
// modification between check and commit. The unique indexes backstop the
// uniqueness checks at the storage layer.
type Validator struct {
	db *sql.DB
}

func NewValidator(db *sql.DB) *Validator {
	return &Validator{db: db}
}

// ValidateBudgetWrite rejects a client-supplied owner that differs from the
// actor. An empty requested owner means "the actor" and always passes.
func (v *Validator) ValidateBudgetWrite(actorID, requestedOwner string) error {
	if requestedOwner != "" && requestedOwner != actorID {
		return &PermissionError{Message: msgBudgetNotYours}
	}
	return nil
}

// ValidateBudgetNameUnique rejects a budget name already taken by any other
// budget, system-wide. excludingID skips the budget being updated.
func (v *Validator) ValidateBudgetNameUnique(ctx context.Context, name, excludingID string) error {
	query := `SELECT EXISTS(SELECT 1 FROM budgets WHERE name = $1 AND id <> $2)`
	if excludingID == "" {
		query = `SELECT EXISTS(SELECT 1 FROM budgets WHERE name = $1 AND $2 = '')`
	}

	var exists bool
	if err := v.db.QueryRowContext(ctx, query, name, excludingID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return &ConflictError{Field: "name", Message: msgNameUnique}
	}
	return nil
}

// ValidateCategoryWrite checks that the target budget exists and belongs to
// the actor.
func (v *Validator) ValidateCategoryWrite(ctx context.Context, actorID, budgetID string) error {
	var ownerID string
	err := v.db.QueryRowContext(ctx, `SELECT user_id FROM budgets WHERE id = $1`, budgetID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return &ValidationError{Field: "budget", Message: "Invalid budget."}
	}
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return &PermissionError{Message: msgBudgetNotYours}
	}
	return nil
}

// ValidateEntryWrite checks the full chain category -> budget -> owner and
// returns the budget id the entry lands in.
func (v *Validator) ValidateEntryWrite(ctx context.Context, actorID, categoryID string) (string, error) {
	var budgetID, ownerID string
	err := v.db.QueryRowContext(ctx, `
		SELECT b.id, b.user_id
		FROM categories c
		INNER JOIN budgets b ON c.budget_id = b.id
		WHERE c.id = $1
	`, categoryID).Scan(&budgetID, &ownerID)
	if err == sql.ErrNoRows {
		return "", &ValidationError{Field: "category", Message: "Invalid category."}
	}
	if err != nil {
		return "", err
	}
	if ownerID != actorID {
		return "", &PermissionError{Message: msgBudgetNotYours}
	}
	return budgetID, nil
}

// ValidateGrantWrite checks a sharing grant: no self-sharing, the visitor
// must exist, the budget must exist and belong to the actor. The grant's
// owner is always the actor, regardless of what the client sent.
func (v *Validator) ValidateGrantWrite(ctx context.Context, actorID, visitorID, budgetID string) error {
	if visitorID == actorID {
		return &ValidationError{Message: msgSelfShare}
	}

	var exists bool
	if err := v.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, visitorID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return &ValidationError{Field: "visitor", Message: "Invalid visitor."}
	}

	var ownerID string
	err := v.db.QueryRowContext(ctx, `SELECT user_id FROM budgets WHERE id = $1`, budgetID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return &ValidationError{Field: "budget", Message: "Invalid budget."}
	}
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return &PermissionError{Message: msgBudgetNotYours}
	}
	return nil
}

// ValidateGrantUnique rejects a duplicate (budget, owner, visitor) grant.
// excludingID skips the grant being updated.
func (v *Validator) ValidateGrantUnique(ctx context.Context, ownerID, visitorID, budgetID, excludingID string) error {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM budget_users
			WHERE budget_id = $1 AND owner_id = $2 AND visitor_id = $3 AND id <> $4
		)
	`
	if excludingID == "" {
		query = `
			SELECT EXISTS(
				SELECT 1 FROM budget_users
				WHERE budget_id = $1 AND owner_id = $2 AND visitor_id = $3 AND $4 = ''
			)
		`
	}

	var exists bool
	if err := v.db.QueryRowContext(ctx, query, budgetID, ownerID, visitorID, excludingID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return &ValidationError{Message: msgGrantUnique}
	}
	return nil
}

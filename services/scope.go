package services

import (
	"context"
	"database/sql"

	"budget-tracker/models"
)

// ScopeService answers one question: which rows may this actor see. Owners
// see what they own, visitors see what was shared with them, and an empty
// actor id sees nothing. Item lookups go through the same filtered queries,
// so a row outside the actor's scope is indistinguishable from a missing one.
type ScopeService struct {
	db *sql.DB
}

func NewScopeService(db *sql.DB) *ScopeService {
	return &ScopeService{db: db}
}

// budgetSearchClause matches a budget by its own name or by one of its
// category names, case-insensitively. An empty term matches everything.
const budgetSearchClause = `($2 = '' OR b.name ILIKE '%' || $2 || '%' OR EXISTS (
			SELECT 1 FROM categories c WHERE c.budget_id = b.id AND c.name ILIKE '%' || $2 || '%'
		))`

// VisibleBudgets returns budgets the actor owns plus budgets shared with
// the actor, newest first, optionally narrowed by a search term.
func (s *ScopeService) VisibleBudgets(ctx context.Context, actorID, search string) ([]models.Budget, error) {
	if actorID == "" {
		return []models.Budget{}, nil
	}

	query := `
		SELECT DISTINCT b.id, b.user_id, b.name, b.created_at
		FROM budgets b
		LEFT JOIN budget_users bu ON bu.budget_id = b.id
		WHERE (b.user_id = $1 OR bu.visitor_id = $1)
		AND ` + budgetSearchClause + `
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, actorID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// VisibleBudget returns one budget from the actor's visible set, or
// ErrNotFound.
func (s *ScopeService) VisibleBudget(ctx context.Context, actorID, budgetID string) (*models.Budget, error) {
	if actorID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT DISTINCT b.id, b.user_id, b.name, b.created_at
		FROM budgets b
		LEFT JOIN budget_users bu ON bu.budget_id = b.id
		WHERE b.id = $2 AND (b.user_id = $1 OR bu.visitor_id = $1)
	`

	var budget models.Budget
	err := s.db.QueryRowContext(ctx, query, actorID, budgetID).Scan(
		&budget.ID, &budget.UserID, &budget.Name, &budget.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &budget, nil
}

// SharedBudgets is the strict visitor view: only budgets shared with the
// actor, never the actor's own.
func (s *ScopeService) SharedBudgets(ctx context.Context, actorID, search string) ([]models.Budget, error) {
	if actorID == "" {
		return []models.Budget{}, nil
	}

	query := `
		SELECT DISTINCT b.id, b.user_id, b.name, b.created_at
		FROM budgets b
		INNER JOIN budget_users bu ON bu.budget_id = b.id
		WHERE bu.visitor_id = $1 AND b.user_id <> $1
		AND ` + budgetSearchClause + `
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, actorID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBudgets(rows)
}

// SharedBudget returns one budget from the shared-only view, or ErrNotFound.
func (s *ScopeService) SharedBudget(ctx context.Context, actorID, budgetID string) (*models.Budget, error) {
	if actorID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT DISTINCT b.id, b.user_id, b.name, b.created_at
		FROM budgets b
		INNER JOIN budget_users bu ON bu.budget_id = b.id
		WHERE b.id = $2 AND bu.visitor_id = $1 AND b.user_id <> $1
	`

	var budget models.Budget
	err := s.db.QueryRowContext(ctx, query, actorID, budgetID).Scan(
		&budget.ID, &budget.UserID, &budget.Name, &budget.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &budget, nil
}

// categoryOrderings whitelists the ?ordering= keys for category lists. The
// related-field keys sort by the category's entry dates/amounts.
var categoryOrderings = map[string]string{
	"financial_entries__date":    `(SELECT MIN(e.date) FROM financial_entries e WHERE e.category_id = c.id) ASC`,
	"-financial_entries__date":   `(SELECT MAX(e.date) FROM financial_entries e WHERE e.category_id = c.id) DESC`,
	"financial_entries__amount":  `(SELECT MIN(e.amount) FROM financial_entries e WHERE e.category_id = c.id) ASC`,
	"-financial_entries__amount": `(SELECT MAX(e.amount) FROM financial_entries e WHERE e.category_id = c.id) DESC`,
}

// VisibleCategories returns categories whose budget the actor owns or has
// been granted access to. The search term matches the category name or any
// of its entries' date, type or amount; ordering accepts the whitelisted
// entry-field keys and otherwise falls back to name order.
func (s *ScopeService) VisibleCategories(ctx context.Context, actorID, search, ordering string) ([]models.Category, error) {
	if actorID == "" {
		return []models.Category{}, nil
	}

	orderBy, ok := categoryOrderings[ordering]
	if !ok {
		orderBy = `c.name`
	}

	// No DISTINCT here: visibility is an EXISTS check, which keeps the
	// ordering expressions legal.
	query := `
		SELECT c.id, c.budget_id, c.name
		FROM categories c
		INNER JOIN budgets b ON c.budget_id = b.id
		WHERE (b.user_id = $1 OR EXISTS (
			SELECT 1 FROM budget_users bu WHERE bu.budget_id = b.id AND bu.visitor_id = $1
		))
		AND ($2 = '' OR c.name ILIKE '%' || $2 || '%' OR EXISTS (
			SELECT 1 FROM financial_entries e
			WHERE e.category_id = c.id AND (
				e.entry_type ILIKE '%' || $2 || '%'
				OR CAST(e.date AS TEXT) ILIKE '%' || $2 || '%'
				OR CAST(e.amount AS TEXT) ILIKE '%' || $2 || '%'
			)
		))
		ORDER BY ` + orderBy

	rows, err := s.db.QueryContext(ctx, query, actorID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (s *ScopeService) VisibleCategory(ctx context.Context, actorID, categoryID string) (*models.Category, error) {
	if actorID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT DISTINCT c.id, c.budget_id, c.name
		FROM categories c
		INNER JOIN budgets b ON c.budget_id = b.id
		LEFT JOIN budget_users bu ON bu.budget_id = b.id
		WHERE c.id = $2 AND (b.user_id = $1 OR bu.visitor_id = $1)
	`

	var category models.Category
	err := s.db.QueryRowContext(ctx, query, actorID, categoryID).Scan(
		&category.ID, &category.BudgetID, &category.Name,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// VisibleEntries returns entries the actor recorded plus entries in budgets
// shared with the actor, newest date first.
func (s *ScopeService) VisibleEntries(ctx context.Context, actorID string) ([]models.FinancialEntry, error) {
	if actorID == "" {
		return []models.FinancialEntry{}, nil
	}

	query := `
		SELECT DISTINCT e.id, e.user_id, e.category_id, e.amount, e.description, e.date, e.entry_type
		FROM financial_entries e
		INNER JOIN categories c ON e.category_id = c.id
		INNER JOIN budgets b ON c.budget_id = b.id
		LEFT JOIN budget_users bu ON bu.budget_id = b.id
		WHERE e.user_id = $1 OR bu.visitor_id = $1
		ORDER BY e.date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *ScopeService) VisibleEntry(ctx context.Context, actorID, entryID string) (*models.FinancialEntry, error) {
	if actorID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT DISTINCT e.id, e.user_id, e.category_id, e.amount, e.description, e.date, e.entry_type
		FROM financial_entries e
		INNER JOIN categories c ON e.category_id = c.id
		INNER JOIN budgets b ON c.budget_id = b.id
		LEFT JOIN budget_users bu ON bu.budget_id = b.id
		WHERE e.id = $2 AND (e.user_id = $1 OR bu.visitor_id = $1)
	`

	var entry models.FinancialEntry
	err := s.db.QueryRowContext(ctx, query, actorID, entryID).Scan(
		&entry.ID, &entry.UserID, &entry.CategoryID, &entry.Amount,
		&entry.Description, &entry.Date, &entry.EntryType,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// VisibleGrants returns the actor's outgoing sharing grants, optionally
// narrowed by a search over the owner name, visitor name or budget name.
// Visitors never see grants, not even ones naming them.
func (s *ScopeService) VisibleGrants(ctx context.Context, actorID, search string) ([]models.BudgetUser, error) {
	if actorID == "" {
		return []models.BudgetUser{}, nil
	}

	query := `
		SELECT bu.id, bu.owner_id, bu.visitor_id, bu.budget_id
		FROM budget_users bu
		INNER JOIN users o ON bu.owner_id = o.id
		INNER JOIN users v ON bu.visitor_id = v.id
		INNER JOIN budgets b ON bu.budget_id = b.id
		WHERE bu.owner_id = $1
		AND ($2 = '' OR o.username ILIKE '%' || $2 || '%'
			OR v.username ILIKE '%' || $2 || '%'
			OR b.name ILIKE '%' || $2 || '%')
		ORDER BY bu.owner_id, bu.visitor_id
	`

	rows, err := s.db.QueryContext(ctx, query, actorID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []models.BudgetUser{}
	for rows.Next() {
		var grant models.BudgetUser
		if err := rows.Scan(&grant.ID, &grant.OwnerID, &grant.VisitorID, &grant.BudgetID); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}

	return grants, rows.Err()
}

func (s *ScopeService) VisibleGrant(ctx context.Context, actorID, grantID string) (*models.BudgetUser, error) {
	if actorID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT bu.id, bu.owner_id, bu.visitor_id, bu.budget_id
		FROM budget_users bu
		WHERE bu.id = $2 AND bu.owner_id = $1
	`

	var grant models.BudgetUser
	err := s.db.QueryRowContext(ctx, query, actorID, grantID).Scan(
		&grant.ID, &grant.OwnerID, &grant.VisitorID, &grant.BudgetID,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &grant, nil
}

func scanBudgets(rows *sql.Rows) ([]models.Budget, error) {
	budgets := []models.Budget{}
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.Name, &budget.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

func scanCategories(rows *sql.Rows) ([]models.Category, error) {
	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.BudgetID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]models.FinancialEntry, error) {
	entries := []models.FinancialEntry{}
	for rows.Next() {
		var entry models.FinancialEntry
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.CategoryID, &entry.Amount,
			&entry.Description, &entry.Date, &entry.EntryType,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

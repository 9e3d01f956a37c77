package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"budget-tracker/models"
)

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

type BudgetService struct {
	db        *sql.DB
	scope     *ScopeService
	validator *Validator
}

func NewBudgetService(db *sql.DB) *BudgetService {
	return &BudgetService{
		db:        db,
		scope:     NewScopeService(db),
		validator: NewValidator(db),
	}
}

// List returns every budget visible to the actor: owned plus shared. The
// search term narrows by budget or category name.
func (s *BudgetService) List(ctx context.Context, actorID, search string) ([]models.BudgetResponse, error) {
	budgets, err := s.scope.VisibleBudgets(ctx, actorID, search)
	if err != nil {
		return nil, err
	}

	responses := []models.BudgetResponse{}
	for _, budget := range budgets {
		resp, err := s.buildResponse(ctx, &budget)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

func (s *BudgetService) Get(ctx context.Context, actorID, budgetID string) (*models.BudgetResponse, error) {
	budget, err := s.scope.VisibleBudget(ctx, actorID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, budget)
}

// ListShared returns only budgets shared with the actor by someone else.
func (s *BudgetService) ListShared(ctx context.Context, actorID, search string) ([]models.BudgetResponse, error) {
	budgets, err := s.scope.SharedBudgets(ctx, actorID, search)
	if err != nil {
		return nil, err
	}

	responses := []models.BudgetResponse{}
	for _, budget := range budgets {
		resp, err := s.buildResponse(ctx, &budget)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

func (s *BudgetService) GetShared(ctx context.Context, actorID, budgetID string) (*models.BudgetResponse, error) {
	budget, err := s.scope.SharedBudget(ctx, actorID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, budget)
}

// Create inserts a budget owned by the actor. A client-supplied owner other
// than the actor is rejected, and the name must be unique system-wide.
func (s *BudgetService) Create(ctx context.Context, actorID string, req models.CreateBudgetRequest) (*models.BudgetResponse, error) {
	if err := s.validator.ValidateBudgetWrite(actorID, req.User); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBudgetNameUnique(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	budget := models.Budget{UserID: actorID, Name: req.Name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, actorID, req.Name).Scan(&budget.ID, &budget.CreatedAt)
	if isUniqueViolation(err) {
		// Lost the race between the uniqueness check and the insert.
		return nil, &ConflictError{Field: "name", Message: msgNameUnique}
	}
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, &budget)
}

// Update renames a budget. Only the owner may update, and the owner cannot
// be reassigned. created_at is never touched.
func (s *BudgetService) Update(ctx context.Context, actorID, budgetID string, req models.CreateBudgetRequest) (*models.BudgetResponse, error) {
	budget, err := s.scope.VisibleBudget(ctx, actorID, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != actorID {
		return nil, &PermissionError{Message: msgBudgetNotYours}
	}
	if err := s.validator.ValidateBudgetWrite(actorID, req.User); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBudgetNameUnique(ctx, req.Name, budgetID); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `UPDATE budgets SET name = $1 WHERE id = $2`, req.Name, budgetID)
	if isUniqueViolation(err) {
		return nil, &ConflictError{Field: "name", Message: msgNameUnique}
	}
	if err != nil {
		return nil, err
	}

	budget.Name = req.Name
	return s.buildResponse(ctx, budget)
}

// Delete removes a budget. The foreign keys cascade to its categories,
// their entries, and its sharing grants.
func (s *BudgetService) Delete(ctx context.Context, actorID, budgetID string) error {
	budget, err := s.scope.VisibleBudget(ctx, actorID, budgetID)
	if err != nil {
		return err
	}
	if budget.UserID != actorID {
		return &PermissionError{Message: msgBudgetNotYours}
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, budgetID)
	return err
}

func (s *BudgetService) buildResponse(ctx context.Context, budget *models.Budget) (*models.BudgetResponse, error) {
	var ownerName string
	if err := s.db.QueryRowContext(ctx, `SELECT username FROM users WHERE id = $1`, budget.UserID).Scan(&ownerName); err != nil {
		return nil, err
	}

	categories := []string{}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM categories WHERE budget_id = $1 ORDER BY name`, budget.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		categories = append(categories, categoryURL(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	visitors := []models.SharedVisitor{}
	visitorRows, err := s.db.QueryContext(ctx, `
		SELECT visitor_id FROM budget_users WHERE budget_id = $1 ORDER BY owner_id, visitor_id
	`, budget.ID)
	if err != nil {
		return nil, err
	}
	defer visitorRows.Close()
	for visitorRows.Next() {
		var id string
		if err := visitorRows.Scan(&id); err != nil {
			return nil, err
		}
		visitors = append(visitors, models.SharedVisitor{Visitor: userURL(id)})
	}
	if err := visitorRows.Err(); err != nil {
		return nil, err
	}

	return &models.BudgetResponse{
		Owner:           ownerName,
		User:            budget.UserID,
		Name:            budget.Name,
		SharedWithUsers: visitors,
		Categories:      categories,
		CreatedAt:       budget.CreatedAt,
		URL:             budgetURL(budget.ID),
	}, nil
}

package services

import (
	"context"
	"database/sql"

	"budget-tracker/models"
)

// BudgetUserService manages sharing grants. Grants are owner-scoped: an
// owner sees and manages only their own outgoing grants, and a grant gives
// its visitor read access only.
type BudgetUserService struct {
	db        *sql.DB
	scope     *ScopeService
	validator *Validator
}

func NewBudgetUserService(db *sql.DB) *BudgetUserService {
	return &BudgetUserService{
		db:        db,
		scope:     NewScopeService(db),
		validator: NewValidator(db),
	}
}

func (s *BudgetUserService) List(ctx context.Context, actorID, search string) ([]models.BudgetUserResponse, error) {
	grants, err := s.scope.VisibleGrants(ctx, actorID, search)
	if err != nil {
		return nil, err
	}

	responses := []models.BudgetUserResponse{}
	for _, grant := range grants {
		resp, err := s.buildResponse(ctx, &grant)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

func (s *BudgetUserService) Get(ctx context.Context, actorID, grantID string) (*models.BudgetUserResponse, error) {
	grant, err := s.scope.VisibleGrant(ctx, actorID, grantID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, grant)
}

// Create issues a grant. The owner is always the actor; self-sharing and
// sharing someone else's budget are rejected before the insert.
func (s *BudgetUserService) Create(ctx context.Context, actorID string, req models.CreateBudgetUserRequest) (*models.BudgetUserResponse, error) {
	if err := s.validator.ValidateGrantWrite(ctx, actorID, req.Visitor, req.Budget); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateGrantUnique(ctx, actorID, req.Visitor, req.Budget, ""); err != nil {
		return nil, err
	}

	grant := models.BudgetUser{OwnerID: actorID, VisitorID: req.Visitor, BudgetID: req.Budget}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budget_users (owner_id, visitor_id, budget_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, actorID, req.Visitor, req.Budget).Scan(&grant.ID)
	if isUniqueViolation(err) {
		return nil, &ValidationError{Message: msgGrantUnique}
	}
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, &grant)
}

func (s *BudgetUserService) Update(ctx context.Context, actorID, grantID string, req models.CreateBudgetUserRequest) (*models.BudgetUserResponse, error) {
	grant, err := s.scope.VisibleGrant(ctx, actorID, grantID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateGrantWrite(ctx, actorID, req.Visitor, req.Budget); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateGrantUnique(ctx, actorID, req.Visitor, req.Budget, grantID); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE budget_users SET visitor_id = $1, budget_id = $2 WHERE id = $3
	`, req.Visitor, req.Budget, grantID)
	if isUniqueViolation(err) {
		return nil, &ValidationError{Message: msgGrantUnique}
	}
	if err != nil {
		return nil, err
	}

	grant.VisitorID = req.Visitor
	grant.BudgetID = req.Budget
	return s.buildResponse(ctx, grant)
}

func (s *BudgetUserService) Delete(ctx context.Context, actorID, grantID string) error {
	if _, err := s.scope.VisibleGrant(ctx, actorID, grantID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM budget_users WHERE id = $1`, grantID)
	return err
}

func (s *BudgetUserService) buildResponse(ctx context.Context, grant *models.BudgetUser) (*models.BudgetUserResponse, error) {
	var ownerName, visitorName, budgetName string
	err := s.db.QueryRowContext(ctx, `
		SELECT o.username, v.username, b.name
		FROM budget_users bu
		INNER JOIN users o ON bu.owner_id = o.id
		INNER JOIN users v ON bu.visitor_id = v.id
		INNER JOIN budgets b ON bu.budget_id = b.id
		WHERE bu.id = $1
	`, grant.ID).Scan(&ownerName, &visitorName, &budgetName)
	if err != nil {
		return nil, err
	}

	return &models.BudgetUserResponse{
		ID:          grant.ID,
		Owner:       grant.OwnerID,
		OwnerName:   ownerName,
		Visitor:     userURL(grant.VisitorID),
		VisitorName: visitorName,
		Budget:      budgetURL(grant.BudgetID),
		BudgetName:  budgetName,
		URL:         grantURL(grant.ID),
	}, nil
}

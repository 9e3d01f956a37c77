package services

import (
	"context"
	"database/sql"

	"budget-tracker/models"
)

type CategoryService struct {
	db        *sql.DB
	scope     *ScopeService
	validator *Validator
}

func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{
		db:        db,
		scope:     NewScopeService(db),
		validator: NewValidator(db),
	}
}

// List returns the actor's visible categories; search and ordering follow
// the scope query's rules.
func (s *CategoryService) List(ctx context.Context, actorID, search, ordering string) ([]models.CategoryResponse, error) {
	categories, err := s.scope.VisibleCategories(ctx, actorID, search, ordering)
	if err != nil {
		return nil, err
	}

	responses := []models.CategoryResponse{}
	for _, category := range categories {
		resp, err := s.buildResponse(ctx, &category)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}

	return responses, nil
}

func (s *CategoryService) Get(ctx context.Context, actorID, categoryID string) (*models.CategoryResponse, error) {
	category, err := s.scope.VisibleCategory(ctx, actorID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, category)
}

// Create attaches a category to a budget the actor owns; attaching to
// someone else's budget is rejected before the insert.
func (s *CategoryService) Create(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.CategoryResponse, string, error) {
	if err := s.validator.ValidateCategoryWrite(ctx, actorID, req.Budget); err != nil {
		return nil, "", err
	}

	category := models.Category{BudgetID: req.Budget, Name: req.Name}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (budget_id, name)
		VALUES ($1, $2)
		RETURNING id
	`, req.Budget, req.Name).Scan(&category.ID)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.buildResponse(ctx, &category)
	return resp, req.Budget, err
}

// Update validates both ends of the move: the category's current budget and
// the requested one must belong to the actor.
func (s *CategoryService) Update(ctx context.Context, actorID, categoryID string, req models.CreateCategoryRequest) (*models.CategoryResponse, string, error) {
	category, err := s.scope.VisibleCategory(ctx, actorID, categoryID)
	if err != nil {
		return nil, "", err
	}
	if err := s.validator.ValidateCategoryWrite(ctx, actorID, category.BudgetID); err != nil {
		return nil, "", err
	}
	if err := s.validator.ValidateCategoryWrite(ctx, actorID, req.Budget); err != nil {
		return nil, "", err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE categories SET budget_id = $1, name = $2 WHERE id = $3
	`, req.Budget, req.Name, categoryID)
	if err != nil {
		return nil, "", err
	}

	category.BudgetID = req.Budget
	category.Name = req.Name
	resp, err := s.buildResponse(ctx, category)
	return resp, req.Budget, err
}

// Delete removes a category and, via the foreign key, its entries. Only the
// owning budget's owner may delete; a visitor's grant is read access only.
func (s *CategoryService) Delete(ctx context.Context, actorID, categoryID string) (string, error) {
	category, err := s.scope.VisibleCategory(ctx, actorID, categoryID)
	if err != nil {
		return "", err
	}
	if err := s.validator.ValidateCategoryWrite(ctx, actorID, category.BudgetID); err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	return category.BudgetID, err
}

func (s *CategoryService) entriesFor(ctx context.Context, categoryID string) ([]models.FinancialEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, amount, description, date, entry_type
		FROM financial_entries
		WHERE category_id = $1
		ORDER BY date DESC
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *CategoryService) buildResponse(ctx context.Context, category *models.Category) (*models.CategoryResponse, error) {
	entries, err := s.entriesFor(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	nested := []models.EntryInCategory{}
	for _, entry := range entries {
		nested = append(nested, models.EntryInCategory{
			Amount:      entry.Amount.StringFixed(2),
			Description: entry.Description,
			Date:        entry.Date,
			EntryType:   entry.EntryType,
			URL:         entryURL(entry.ID),
		})
	}

	return &models.CategoryResponse{
		Budget:           budgetURL(category.BudgetID),
		Name:             category.Name,
		FinancialEntries: nested,
		Bilance:          Bilance(entries).StringFixed(2),
		URL:              categoryURL(category.ID),
	}, nil
}

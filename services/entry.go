package services

import (
	"context"
	"database/sql"

	"budget-tracker/models"
)

type EntryService struct {
	db        *sql.DB
	scope     *ScopeService
	validator *Validator
}

func NewEntryService(db *sql.DB) *EntryService {
	return &EntryService{
		db:        db,
		scope:     NewScopeService(db),
		validator: NewValidator(db),
	}
}

func (s *EntryService) List(ctx context.Context, actorID string) ([]models.EntryResponse, error) {
	entries, err := s.scope.VisibleEntries(ctx, actorID)
	if err != nil {
		return nil, err
	}

	responses := []models.EntryResponse{}
	for _, entry := range entries {
		responses = append(responses, buildEntryResponse(&entry))
	}

	return responses, nil
}

func (s *EntryService) Get(ctx context.Context, actorID, entryID string) (*models.EntryResponse, error) {
	entry, err := s.scope.VisibleEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}
	resp := buildEntryResponse(entry)
	return &resp, nil
}

// Create records an entry against a category in a budget the actor owns.
// The recording user is always the actor. Returns the affected budget id
// alongside the representation.
func (s *EntryService) Create(ctx context.Context, actorID string, req models.CreateEntryRequest) (*models.EntryResponse, string, error) {
	budgetID, err := s.validator.ValidateEntryWrite(ctx, actorID, req.Category)
	if err != nil {
		return nil, "", err
	}

	entry := models.FinancialEntry{
		UserID:      actorID,
		CategoryID:  req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		EntryType:   req.EntryType,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO financial_entries (user_id, category_id, amount, description, date, entry_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, actorID, req.Category, req.Amount, req.Description, req.Date, req.EntryType).Scan(&entry.ID)
	if err != nil {
		return nil, "", err
	}

	resp := buildEntryResponse(&entry)
	return &resp, budgetID, nil
}

// Update revalidates the ownership chain for both the entry's current
// category and the requested one.
func (s *EntryService) Update(ctx context.Context, actorID, entryID string, req models.CreateEntryRequest) (*models.EntryResponse, string, error) {
	entry, err := s.scope.VisibleEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.validator.ValidateEntryWrite(ctx, actorID, entry.CategoryID); err != nil {
		return nil, "", err
	}
	budgetID, err := s.validator.ValidateEntryWrite(ctx, actorID, req.Category)
	if err != nil {
		return nil, "", err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE financial_entries
		SET category_id = $1, amount = $2, description = $3, date = $4, entry_type = $5, user_id = $6
		WHERE id = $7
	`, req.Category, req.Amount, req.Description, req.Date, req.EntryType, actorID, entryID)
	if err != nil {
		return nil, "", err
	}

	entry.CategoryID = req.Category
	entry.Amount = req.Amount
	entry.Description = req.Description
	entry.Date = req.Date
	entry.EntryType = req.EntryType
	entry.UserID = actorID

	resp := buildEntryResponse(entry)
	return &resp, budgetID, nil
}

func (s *EntryService) Delete(ctx context.Context, actorID, entryID string) (string, error) {
	entry, err := s.scope.VisibleEntry(ctx, actorID, entryID)
	if err != nil {
		return "", err
	}
	budgetID, err := s.validator.ValidateEntryWrite(ctx, actorID, entry.CategoryID)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM financial_entries WHERE id = $1`, entryID)
	return budgetID, err
}

func buildEntryResponse(entry *models.FinancialEntry) models.EntryResponse {
	return models.EntryResponse{
		ID:          entry.ID,
		User:        entry.UserID,
		Category:    categoryURL(entry.CategoryID),
		Amount:      entry.Amount.StringFixed(2),
		Description: entry.Description,
		Date:        entry.Date,
		EntryType:   entry.EntryType,
		URL:         entryURL(entry.ID),
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-tracker/models"
)

func TestEntryServiceCreate(t *testing.T) {
	t.Run("records entry as the actor", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-1"))
		mock.ExpectQuery(`INSERT INTO financial_entries`).
			WithArgs("actor-1", "category-1", "49.99", "lunch", "2021-01-15", "Expense").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("entry-1"))

		s := NewEntryService(db)
		resp, budgetID, err := s.Create(context.Background(), "actor-1", models.CreateEntryRequest{
			Category:    "category-1",
			Amount:      decimal.RequireFromString("49.99"),
			Description: "lunch",
			Date:        models.NewDate(2021, time.January, 15),
			EntryType:   models.EntryTypeExpense,
		})
		require.NoError(t, err)
		assert.Equal(t, "budget-1", budgetID)
		assert.Equal(t, "actor-1", resp.User)
		assert.Equal(t, "/categories/category-1", resp.Category)
		assert.Equal(t, "49.99", resp.Amount)
		assert.Equal(t, "2021-01-15", resp.Date.String())
		assert.Equal(t, "Expense", resp.EntryType)
		assert.Equal(t, "/financial-entries/entry-1", resp.URL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category in a foreign budget rejected before the insert", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-2"))

		s := NewEntryService(db)
		_, _, err := s.Create(context.Background(), "actor-1", models.CreateEntryRequest{
			Category:  "category-1",
			Amount:    decimal.RequireFromString("10"),
			Date:      models.NewDate(2021, time.January, 15),
			EntryType: models.EntryTypeIncome,
		})
		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, "This budget doesn't belong to you.", permErr.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryServiceUpdate(t *testing.T) {
	t.Run("revalidates both the old and the new category", func(t *testing.T) {
		db, mock := newMockDB(t)
		date := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT DISTINCT e\.id, e\.user_id, e\.category_id`).
			WithArgs("actor-1", "entry-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "amount", "description", "date", "entry_type"}).
				AddRow("entry-1", "actor-1", "category-1", "49.99", "lunch", date, "Expense"))
		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-1"))
		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-1"))
		// decimal trims trailing zeros when driving the value, so match the
		// amount loosely.
		mock.ExpectExec(`UPDATE financial_entries`).
			WithArgs("category-2", sqlmock.AnyArg(), "dinner", "2021-01-15", "Expense", "actor-1", "entry-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewEntryService(db)
		resp, budgetID, err := s.Update(context.Background(), "actor-1", "entry-1", models.CreateEntryRequest{
			Category:    "category-2",
			Amount:      decimal.RequireFromString("52.50"),
			Description: "dinner",
			Date:        models.NewDate(2021, time.January, 15),
			EntryType:   models.EntryTypeExpense,
		})
		require.NoError(t, err)
		assert.Equal(t, "budget-1", budgetID)
		assert.Equal(t, "52.50", resp.Amount)
		assert.Equal(t, "/categories/category-2", resp.Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryServiceDelete(t *testing.T) {
	t.Run("visitor cannot delete an entry seen through a grant", func(t *testing.T) {
		db, mock := newMockDB(t)
		date := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT DISTINCT e\.id, e\.user_id, e\.category_id`).
			WithArgs("visitor-1", "entry-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "amount", "description", "date", "entry_type"}).
				AddRow("entry-1", "actor-1", "category-1", "49.99", "lunch", date, "Expense"))
		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-1"))

		s := NewEntryService(db)
		_, err := s.Delete(context.Background(), "visitor-1", "entry-1")
		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("owner deletes", func(t *testing.T) {
		db, mock := newMockDB(t)
		date := time.Date(2021, 1, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT DISTINCT e\.id, e\.user_id, e\.category_id`).
			WithArgs("actor-1", "entry-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "amount", "description", "date", "entry_type"}).
				AddRow("entry-1", "actor-1", "category-1", "49.99", "lunch", date, "Expense"))
		mock.ExpectQuery(`SELECT b\.id, b\.user_id\s+FROM categories c`).
			WithArgs("category-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("budget-1", "actor-1"))
		mock.ExpectExec(`DELETE FROM financial_entries WHERE id = \$1`).
			WithArgs("entry-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewEntryService(db)
		budgetID, err := s.Delete(context.Background(), "actor-1", "entry-1")
		require.NoError(t, err)
		assert.Equal(t, "budget-1", budgetID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

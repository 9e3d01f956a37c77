package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetsRequireAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, _ := newMockDB(t)
	router := newTestRouter(db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/budgets", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail": "Authentication credentials were not provided."}`, w.Body.String())
}

func TestListBudgets(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newTestRouter(db)
	created := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT DISTINCT b\.id, b\.user_id, b\.name, b\.created_at`).
		WithArgs("actor-1", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
			AddRow("budget-1", "actor-1", "household", created))
	mock.ExpectQuery(`SELECT username FROM users WHERE id = \$1`).
		WithArgs("actor-1").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
	mock.ExpectQuery(`SELECT id FROM categories WHERE budget_id = \$1`).
		WithArgs("budget-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("category-1"))
	mock.ExpectQuery(`SELECT visitor_id FROM budget_users WHERE budget_id = \$1`).
		WithArgs("budget-1").
		WillReturnRows(sqlmock.NewRows([]string{"visitor_id"}).AddRow("visitor-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodGet, "/budgets", ""))

	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []struct {
			Owner           string   `json:"owner"`
			User            string   `json:"user"`
			Name            string   `json:"name"`
			Categories      []string `json:"categories"`
			SharedWithUsers []struct {
				Visitor string `json:"visitor"`
			} `json:"shared_with_users"`
			URL string `json:"url"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "alice", page.Results[0].Owner)
	assert.Equal(t, "household", page.Results[0].Name)
	assert.Equal(t, []string{"/categories/category-1"}, page.Results[0].Categories)
	require.Len(t, page.Results[0].SharedWithUsers, 1)
	assert.Equal(t, "/users/visitor-1", page.Results[0].SharedWithUsers[0].Visitor)
	assert.Equal(t, "/budgets/budget-1", page.Results[0].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBudgetsSearch(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newTestRouter(db)

	// ?search= flows into the scoped query as a bound parameter.
	mock.ExpectQuery(`SELECT DISTINCT b\.id, b\.user_id, b\.name, b\.created_at`).
		WithArgs("actor-1", "groc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodGet, "/budgets?search=groc", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudget(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("created", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newTestRouter(db)
		created := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM budgets WHERE name = \$1`).
			WithArgs("household", "").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`INSERT INTO budgets`).
			WithArgs("actor-1", "household").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("budget-1", created))
		mock.ExpectQuery(`SELECT username FROM users WHERE id = \$1`).
			WithArgs("actor-1").
			WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))
		mock.ExpectQuery(`SELECT id FROM categories WHERE budget_id = \$1`).
			WithArgs("budget-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT visitor_id FROM budget_users WHERE budget_id = \$1`).
			WithArgs("budget-1").
			WillReturnRows(sqlmock.NewRows([]string{"visitor_id"}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/budgets", `{"name": "household"}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newTestRouter(db)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM budgets WHERE name = \$1`).
			WithArgs("household", "").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/budgets", `{"name": "household"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"name": ["This field must be unique."]}`, w.Body.String())
	})

	t.Run("foreign owner in the payload", func(t *testing.T) {
		db, _ := newMockDB(t)
		router := newTestRouter(db)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/budgets", `{"name": "household", "user": "actor-2"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"non_field_errors": ["This budget doesn't belong to you."]}`, w.Body.String())
	})

	t.Run("missing name rejected by binding", func(t *testing.T) {
		db, _ := newMockDB(t)
		router := newTestRouter(db)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/budgets", `{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetBudgetNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newTestRouter(db)

	mock.ExpectQuery(`SELECT DISTINCT b\.id, b\.user_id, b\.name, b\.created_at`).
		WithArgs("actor-1", "budget-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodGet, "/budgets/budget-9", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail": "Not found."}`, w.Body.String())
}

func TestSharedBudgetWritesRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newTestRouter(db)

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodPost, "/shared-budgets"},
		{http.MethodPut, "/shared-budgets/budget-1"},
		{http.MethodDelete, "/shared-budgets/budget-1"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, tc.method, tc.target, `{"name": "sneaky"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code, tc.method)
		assert.JSONEq(t, `{"non_field_errors": ["You cannot create shared budget this way."]}`, w.Body.String(), tc.method)
	}
	// No database work happens for rejected writes.
	assert.NoError(t, mock.ExpectationsWereMet())
}

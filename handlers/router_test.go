package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"budget-tracker/middleware"
	"budget-tracker/services"
	"budget-tracker/utils"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

// newTestRouter wires the budget surface behind the real auth middleware,
// the way main assembles it.
func newTestRouter(db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewBudgetHandler(services.NewBudgetService(db), nil)
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/budgets", h.ListBudgets)
	protected.POST("/budgets", h.CreateBudget)
	protected.GET("/budgets/:id", h.GetBudget)
	protected.PUT("/budgets/:id", h.UpdateBudget)
	protected.DELETE("/budgets/:id", h.DeleteBudget)
	protected.GET("/shared-budgets", h.ListSharedBudgets)
	protected.POST("/shared-budgets", h.RejectSharedBudgetWrite)
	protected.PUT("/shared-budgets/:id", h.RejectSharedBudgetWrite)
	protected.DELETE("/shared-budgets/:id", h.RejectSharedBudgetWrite)

	return router
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	token, err := utils.GenerateAccessToken("actor-1", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-tracker/middleware"
	"budget-tracker/utils"
)

func newAuthTestRouter(db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewAuthHandler(db)
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/auth/change-password", h.ChangePassword)

	return router
}

func TestChangePassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("changes after verifying the current password", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newAuthTestRouter(db)

		currentHash, err := utils.HashPassword("oldpass")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT password_hash FROM users WHERE id = \$1`).
			WithArgs("actor-1").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(currentHash))
		mock.ExpectExec(`UPDATE users SET password_hash = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(sqlmock.AnyArg(), "actor-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/auth/change-password",
			`{"current_password": "oldpass", "new_password": "newpass1"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message": "Password changed successfully"}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong current password leaves the hash alone", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newAuthTestRouter(db)

		currentHash, err := utils.HashPassword("oldpass")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT password_hash FROM users WHERE id = \$1`).
			WithArgs("actor-1").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash"}).AddRow(currentHash))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/auth/change-password",
			`{"current_password": "guess", "new_password": "newpass1"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Current password is incorrect"}`, w.Body.String())
		// No UPDATE was expected; the write never happened.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short new password rejected by binding", func(t *testing.T) {
		db, mock := newMockDB(t)
		router := newAuthTestRouter(db)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/auth/change-password",
			`{"current_password": "oldpass", "new_password": "short"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

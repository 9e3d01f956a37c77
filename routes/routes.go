package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"budget-tracker/handlers"
	"budget-tracker/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := handlers.NewAuthHandler(db)

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupAccountRoutes sets up protected account management routes: password
// change and 2FA.
func SetupAccountRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := handlers.NewAuthHandler(db)

	rg.POST("/auth/change-password", authHandler.ChangePassword)
	rg.POST("/auth/2fa/setup", authHandler.SetupTOTP)
	rg.POST("/auth/2fa/verify", authHandler.VerifyTOTP)
	rg.POST("/auth/2fa/disable", authHandler.DisableTOTP)
}

// SetupBudgetRoutes sets up protected budget routes, including the
// read-only shared view.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewBudgetHandler(services.NewBudgetService(db), ws)

	rg.GET("/budgets", h.ListBudgets)
	rg.POST("/budgets", h.CreateBudget)
	rg.GET("/budgets/:id", h.GetBudget)
	rg.PUT("/budgets/:id", h.UpdateBudget)
	rg.DELETE("/budgets/:id", h.DeleteBudget)

	// The shared view never accepts writes, whoever asks.
	rg.GET("/shared-budgets", h.ListSharedBudgets)
	rg.GET("/shared-budgets/:id", h.GetSharedBudget)
	rg.POST("/shared-budgets", h.RejectSharedBudgetWrite)
	rg.PUT("/shared-budgets/:id", h.RejectSharedBudgetWrite)
	rg.DELETE("/shared-budgets/:id", h.RejectSharedBudgetWrite)
}

// SetupCategoryRoutes sets up protected category routes.
func SetupCategoryRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewCategoryHandler(services.NewCategoryService(db), ws)

	rg.GET("/categories", h.ListCategories)
	rg.POST("/categories", h.CreateCategory)
	rg.GET("/categories/:id", h.GetCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)
}

// SetupEntryRoutes sets up protected financial entry routes.
func SetupEntryRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewEntryHandler(services.NewEntryService(db), ws)

	rg.GET("/financial-entries", h.ListEntries)
	rg.POST("/financial-entries", h.CreateEntry)
	rg.GET("/financial-entries/:id", h.GetEntry)
	rg.PUT("/financial-entries/:id", h.UpdateEntry)
	rg.DELETE("/financial-entries/:id", h.DeleteEntry)
}

// SetupBudgetUserRoutes sets up protected sharing grant routes.
func SetupBudgetUserRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewBudgetUserHandler(services.NewBudgetUserService(db), ws)

	rg.GET("/budget-users", h.ListGrants)
	rg.POST("/budget-users", h.CreateGrant)
	rg.GET("/budget-users/:id", h.GetGrant)
	rg.PUT("/budget-users/:id", h.UpdateGrant)
	rg.DELETE("/budget-users/:id", h.DeleteGrant)
}

// SetupUserRoutes sets up protected user directory routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewUserHandler(services.NewUserService(db))

	rg.GET("/users", h.ListUsers)
	rg.POST("/users", h.CreateUser)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id", h.UpdateUser)
	rg.DELETE("/users/:id", h.DeleteUser)
}

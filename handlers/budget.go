package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-tracker/middleware"
	"budget-tracker/models"
	"budget-tracker/services"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
	WS      *WSHandler
}

func NewBudgetHandler(budgets *services.BudgetService, ws *WSHandler) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets, WS: ws}
}

// ListBudgets returns the actor's visible budgets: owned plus shared.
// ?search= narrows by budget or category name.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budgets, err := h.Budgets.List(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, budgets)
}

func (h *BudgetHandler) GetBudget(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budget, err := h.Budgets.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// CreateBudget creates a budget owned by the actor.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Create(c.Request.Context(), actor, req)
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	actor := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Update(c.Request.Context(), actor, budgetID, req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "budget_updated", middleware.GetUsername(c))
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	actor := middleware.GetUserID(c)
	budgetID := c.Param("id")

	if err := h.Budgets.Delete(c.Request.Context(), actor, budgetID); err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "budget_deleted", middleware.GetUsername(c))
	c.Status(http.StatusNoContent)
}

// ListSharedBudgets is the read-only visitor view: only budgets shared with
// the actor, never the actor's own.
func (h *BudgetHandler) ListSharedBudgets(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budgets, err := h.Budgets.ListShared(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, budgets)
}

func (h *BudgetHandler) GetSharedBudget(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budget, err := h.Budgets.GetShared(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// RejectSharedBudgetWrite answers every mutating method on the shared view.
func (h *BudgetHandler) RejectSharedBudgetWrite(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"non_field_errors": []string{"You cannot create shared budget this way."},
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-tracker/middleware"
	"budget-tracker/models"
	"budget-tracker/services"
)

type BudgetUserHandler struct {
	Grants *services.BudgetUserService
	WS     *WSHandler
}

func NewBudgetUserHandler(grants *services.BudgetUserService, ws *WSHandler) *BudgetUserHandler {
	return &BudgetUserHandler{Grants: grants, WS: ws}
}

// ListGrants returns the actor's outgoing sharing grants only. ?search=
// matches the owner name, visitor name or budget name.
func (h *BudgetUserHandler) ListGrants(c *gin.Context) {
	actor := middleware.GetUserID(c)

	grants, err := h.Grants.List(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, grants)
}

func (h *BudgetUserHandler) GetGrant(c *gin.Context) {
	actor := middleware.GetUserID(c)

	grant, err := h.Grants.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

func (h *BudgetUserHandler) CreateGrant(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateBudgetUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.Grants.Create(c.Request.Context(), actor, req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(req.Budget, "budget_shared", middleware.GetUsername(c))
	c.JSON(http.StatusCreated, grant)
}

func (h *BudgetUserHandler) UpdateGrant(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateBudgetUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.Grants.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(req.Budget, "budget_shared", middleware.GetUsername(c))
	c.JSON(http.StatusOK, grant)
}

func (h *BudgetUserHandler) DeleteGrant(c *gin.Context) {
	actor := middleware.GetUserID(c)

	if err := h.Grants.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RenderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

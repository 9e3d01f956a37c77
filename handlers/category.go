package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-tracker/middleware"
	"budget-tracker/models"
	"budget-tracker/services"
)

type CategoryHandler struct {
	Categories *services.CategoryService
	WS         *WSHandler
}

func NewCategoryHandler(categories *services.CategoryService, ws *WSHandler) *CategoryHandler {
	return &CategoryHandler{Categories: categories, WS: ws}
}

// ListCategories returns the actor's visible categories. ?search= matches
// the name or the entries' fields, ?ordering= accepts the entry date and
// amount keys.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	actor := middleware.GetUserID(c)

	categories, err := h.Categories.List(c.Request.Context(), actor, c.Query("search"), c.Query("ordering"))
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	actor := middleware.GetUserID(c)

	category, err := h.Categories.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, budgetID, err := h.Categories.Create(c.Request.Context(), actor, req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "category_changed", middleware.GetUsername(c))
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, budgetID, err := h.Categories.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "category_changed", middleware.GetUsername(c))
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budgetID, err := h.Categories.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "category_changed", middleware.GetUsername(c))
	c.Status(http.StatusNoContent)
}

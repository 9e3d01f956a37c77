package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-tracker/middleware"
	"budget-tracker/models"
	"budget-tracker/services"
)

type EntryHandler struct {
	Entries *services.EntryService
	WS      *WSHandler
}

func NewEntryHandler(entries *services.EntryService, ws *WSHandler) *EntryHandler {
	return &EntryHandler{Entries: entries, WS: ws}
}

func (h *EntryHandler) ListEntries(c *gin.Context) {
	actor := middleware.GetUserID(c)

	entries, err := h.Entries.List(c.Request.Context(), actor)
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, entries)
}

func (h *EntryHandler) GetEntry(c *gin.Context) {
	actor := middleware.GetUserID(c)

	entry, err := h.Entries.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) CreateEntry(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, budgetID, err := h.Entries.Create(c.Request.Context(), actor, req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "entry_changed", middleware.GetUsername(c))
	c.JSON(http.StatusCreated, entry)
}

func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, budgetID, err := h.Entries.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "entry_changed", middleware.GetUsername(c))
	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	actor := middleware.GetUserID(c)

	budgetID, err := h.Entries.Delete(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	h.WS.BroadcastUpdate(budgetID, "entry_changed", middleware.GetUsername(c))
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-tracker/middleware"
	"budget-tracker/models"
	"budget-tracker/services"
)

type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// ListUsers is the public directory: id and username only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}

	renderPage(c, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req)
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		URL:      "/users/" + user.ID,
	})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor := middleware.GetUserID(c)

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor := middleware.GetUserID(c)

	if err := h.Users.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RenderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

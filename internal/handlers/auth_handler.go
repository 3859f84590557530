package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/middleware"
	"github.com/harentsoaR/dentaldash-api/internal/models"
	"github.com/harentsoaR/dentaldash-api/internal/store"
	"github.com/harentsoaR/dentaldash-api/internal/utils"
)

type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleDentist, models.RoleAssistant, models.RoleStaff:
		return true
	}
	return false
}

// RegisterUser is public self-registration. New accounts get the assistant
// role whatever they ask for; only the very first account becomes the
// clinic's dentist. Other roles are granted through CreateUser.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != "" && !validRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be dentist, assistant or staff"})
		return
	}

	n, err := h.Store.CountUsers(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "Failed to create user")
		return
	}
	role := models.RoleAssistant
	if n == 0 {
		role = models.RoleDentist
	}
	h.createUser(c, req, role)
}

// CreateUser lets a dentist open an account with any role.
func (h *Handler) CreateUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleAssistant
	}
	if !validRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be dentist, assistant or staff"})
		return
	}
	h.createUser(c, req, role)
}

func (h *Handler) createUser(c *gin.Context, req RegisterUserRequest, role string) {
	hashedPassword, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		h.Logger.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := h.Store.CreateUser(c.Request.Context(), models.User{
		FullName: req.FullName,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     role,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		h.storeError(c, err, "Failed to create user")
		return
	}
	h.Logger.Info("user registered", "userID", user.ID, "role", user.Role)

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Store.UserByEmail(c.Request.Context(), strings.TrimSpace(loginReq.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error("login lookup", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.Tokens.GenerateJWT(user.ID, user.Role)
	if err != nil {
		h.Logger.Error("generate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.Store.UserByID(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		h.storeError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser lets a user change their own full name.
func (h *Handler) UpdateCurrentUser(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	if err := h.Store.UpdateUserName(c.Request.Context(), c.GetString(middleware.UserIDKey), req.FullName); err != nil {
		h.storeError(c, err, "Failed to update user profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

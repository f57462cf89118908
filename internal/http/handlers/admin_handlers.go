package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// AdminHandlers exposes identity management to administrators
type AdminHandlers struct {
	adminSvc domain.AdminService
}

func NewAdminHandlers(adminSvc domain.AdminService) *AdminHandlers {
	return &AdminHandlers{adminSvc: adminSvc}
}

// CreateUserRequest is RegisterRequest plus an explicit role
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the administrative patch; unlike ProfileRequest it may change the role
type UpdateUserRequest struct {
	ProfileRequest
	Role *string `json:"role"`
}

func (h *AdminHandlers) ListUsers(c *gin.Context) {
	users, err := h.adminSvc.ListUsers(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: profiles(users)})
}

func (h *AdminHandlers) GetUser(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	user, err := h.adminSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{User: user.Profile()})
}

func (h *AdminHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in := domain.RegisterInput{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: req.Password}
	user, err := h.adminSvc.CreateUser(c.Request.Context(), in, req.Role)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "User created successfully", User: user.Profile()})
}

func (h *AdminHandlers) UpdateUser(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := domain.IdentityPatch{ProfilePatch: req.patch(), Role: req.Role}
	user, err := h.adminSvc.UpdateUser(c.Request.Context(), currentUserID(c), id, patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "User updated successfully", User: user.Profile()})
}

func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.adminSvc.DeleteUser(c.Request.Context(), currentUserID(c), id); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "User deleted successfully"})
}

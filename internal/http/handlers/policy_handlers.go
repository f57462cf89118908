package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// PolicyHandlers administers the casbin role policies
type PolicyHandlers struct {
	svc domain.PolicyService
}

func NewPolicyHandlers(svc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{svc: svc}
}

// PolicyRequest names a role, a path pattern and a method pattern
type PolicyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	respond(c, http.StatusOK, Response{Data: h.svc.GetPolicies()})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.svc.AddPolicy(req.Role, req.Resource, req.Action); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "Policy added"})
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.svc.RemovePolicy(req.Role, req.Resource, req.Action); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Policy removed"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// ContactHandlers serves the public contact form and its admin inbox
type ContactHandlers struct {
	svc domain.ContactService
}

func NewContactHandlers(svc domain.ContactService) *ContactHandlers {
	return &ContactHandlers{svc: svc}
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *ContactHandlers) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.svc.Submit(c.Request.Context(), &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "Message sent successfully", Data: msg})
}

func (h *ContactHandlers) List(c *gin.Context) {
	msgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: msgs})
}

func (h *ContactHandlers) UpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	msg, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Message status updated", Data: msg})
}

func (h *ContactHandlers) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Message deleted successfully"})
}

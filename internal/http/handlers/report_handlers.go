package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// ReportHandlers serves medical reports for owners and administrators
type ReportHandlers struct {
	svc domain.ReportService
}

func NewReportHandlers(svc domain.ReportService) *ReportHandlers {
	return &ReportHandlers{svc: svc}
}

// ReportRequest represents a new report. UserID is only read on the admin route.
type ReportRequest struct {
	UserID      uint            `json:"userId"`
	Category    string          `json:"category" binding:"required"`
	Date        string          `json:"date"`
	Results     json.RawMessage `json:"results"`
	Attachments []string        `json:"attachments"`
	Notes       string          `json:"notes"`
}

func (r ReportRequest) input() domain.ReportInput {
	return domain.ReportInput{
		Category:    r.Category,
		Date:        r.Date,
		Results:     r.Results,
		Attachments: r.Attachments,
		Notes:       r.Notes,
	}
}

// ReportUpdateRequest is a partial report update
type ReportUpdateRequest struct {
	Category    *string         `json:"category"`
	Date        *string         `json:"date"`
	Results     json.RawMessage `json:"results"`
	Attachments *[]string       `json:"attachments"`
	Notes       *string         `json:"notes"`
}

func (r ReportUpdateRequest) patch() domain.ReportPatch {
	return domain.ReportPatch{
		Category:    r.Category,
		Date:        r.Date,
		Results:     r.Results,
		Attachments: r.Attachments,
		Notes:       r.Notes,
	}
}

func (h *ReportHandlers) Create(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.svc.Create(c.Request.Context(), currentUserID(c), req.input())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "Report created successfully", Data: report})
}

func (h *ReportHandlers) ListMine(c *gin.Context) {
	reports, err := h.svc.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: reports})
}

func (h *ReportHandlers) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: stats})
}

func (h *ReportHandlers) GetMine(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	report, err := h.svc.GetMine(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: report})
}

func (h *ReportHandlers) UpdateMine(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req ReportUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.svc.UpdateMine(c.Request.Context(), currentUserID(c), id, req.patch())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Report updated successfully", Data: report})
}

func (h *ReportHandlers) DeleteMine(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.DeleteMine(c.Request.Context(), currentUserID(c), id); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Report deleted successfully"})
}

// Abnormalities lists out-of-range values. No reference ranges are stored, so it is always empty.
func (h *ReportHandlers) Abnormalities(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	found, err := h.svc.Abnormalities(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: found})
}

// AdminCreate stores a report on behalf of the user named in the body
func (h *ReportHandlers) AdminCreate(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.UserID == 0 {
		WriteError(c, domain.Invalid("userId is required"))
		return
	}

	report, err := h.svc.CreateFor(c.Request.Context(), req.UserID, req.input())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "Report created successfully", Data: report})
}

func (h *ReportHandlers) ListAll(c *gin.Context) {
	reports, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: reports})
}

func (h *ReportHandlers) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	report, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: report})
}

func (h *ReportHandlers) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req ReportUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.svc.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Report updated successfully", Data: report})
}

func (h *ReportHandlers) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Report deleted successfully"})
}

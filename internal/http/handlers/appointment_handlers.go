package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// AppointmentHandlers serves patient bookings and the admin/doctor oversight routes
type AppointmentHandlers struct {
	svc domain.AppointmentService
}

func NewAppointmentHandlers(svc domain.AppointmentService) *AppointmentHandlers {
	return &AppointmentHandlers{svc: svc}
}

// AppointmentRequest represents a booking
type AppointmentRequest struct {
	Name     string `json:"name" binding:"required"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
	DoctorID *uint  `json:"doctorId"`
}

func (r AppointmentRequest) input() domain.AppointmentInput {
	return domain.AppointmentInput{
		Name:     r.Name,
		Gender:   r.Gender,
		Age:      r.Age,
		Phone:    r.Phone,
		Email:    r.Email,
		Date:     r.Date,
		Time:     r.Time,
		Reason:   r.Reason,
		Notes:    r.Notes,
		DoctorID: r.DoctorID,
	}
}

// StatusRequest carries a status change
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AppointmentUpdateRequest is the admin/doctor partial update
type AppointmentUpdateRequest struct {
	Status   *string `json:"status"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Reason   *string `json:"reason"`
	Notes    *string `json:"notes"`
	DoctorID *uint   `json:"doctorId"`
}

// Book creates an appointment owned by the caller
func (h *AppointmentHandlers) Book(c *gin.Context) {
	userID := currentUserID(c)
	h.book(c, &userID)
}

// BookPublic creates an anonymous appointment request
func (h *AppointmentHandlers) BookPublic(c *gin.Context) {
	h.book(c, nil)
}

func (h *AppointmentHandlers) book(c *gin.Context, userID *uint) {
	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.Book(c.Request.Context(), userID, req.input())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusCreated, Response{Message: "Appointment booked successfully", Data: appt})
}

func (h *AppointmentHandlers) ListMine(c *gin.Context) {
	appts, err := h.svc.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: appts})
}

func (h *AppointmentHandlers) GetMine(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	appt, err := h.svc.GetMine(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: appt})
}

func (h *AppointmentHandlers) UpdateMyStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	appt, err := h.svc.UpdateMyStatus(c.Request.Context(), currentUserID(c), id, req.Status)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Appointment updated successfully", Data: appt})
}

func (h *AppointmentHandlers) Cancel(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	appt, err := h.svc.Cancel(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Appointment cancelled successfully", Data: appt})
}

func (h *AppointmentHandlers) ListAll(c *gin.Context) {
	appts, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: appts})
}

func (h *AppointmentHandlers) Get(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	appt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Data: appt})
}

func (h *AppointmentHandlers) Update(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req AppointmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := domain.AppointmentPatch{
		Status:   req.Status,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
		Notes:    req.Notes,
		DoctorID: req.DoctorID,
	}
	appt, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Appointment updated successfully", Data: appt})
}

func (h *AppointmentHandlers) Delete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Appointment deleted successfully"})
}

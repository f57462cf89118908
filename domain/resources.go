package domain

import (
	"encoding/json"
	"time"
)

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// DefaultAppointmentReason is used when a booking gives no reason.
const DefaultAppointmentReason = "General Consultation"

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Appointment is a booking request. UserID is nil for anonymous bookings.
type Appointment struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"userId,omitempty"`
	DoctorID  *uint     `json:"doctorId,omitempty"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender,omitempty"`
	Age       int       `json:"age,omitempty"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OwnedBy reports whether the appointment belongs to the given identity.
func (a *Appointment) OwnedBy(identityID uint) bool {
	return a.UserID != nil && *a.UserID == identityID
}

// AppointmentInput carries booking fields
type AppointmentInput struct {
	Name     string
	Gender   string
	Age      int
	Phone    string
	Email    string
	Date     string
	Time     string
	Reason   string
	Notes    string
	DoctorID *uint
}

// AppointmentPatch is an administrative partial update
type AppointmentPatch struct {
	Status   *string
	Date     *string
	Time     *string
	Reason   *string
	Notes    *string
	DoctorID *uint
}

// Report categories
const (
	ReportBloodTest = "blood-test"
	ReportGutTest   = "gut-test"
)

// ValidReportCategory reports whether c is a known report category.
func ValidReportCategory(c string) bool {
	return c == ReportBloodTest || c == ReportGutTest
}

// MedicalReport is a stored lab report
type MedicalReport struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"userId"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Results     json.RawMessage `json:"results,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ReportInput carries report fields. Date is YYYY-MM-DD; empty means today.
type ReportInput struct {
	Category    string
	Date        string
	Results     json.RawMessage
	Attachments []string
	Notes       string
}

// ReportPatch is a partial report update
type ReportPatch struct {
	Category    *string
	Date        *string
	Results     json.RawMessage
	Attachments *[]string
	Notes       *string
}

// ReportStats summarizes an identity's reports
type ReportStats struct {
	TotalReports  int              `json:"totalReports"`
	ByType        map[string]int   `json:"byType"`
	ByMonth       map[string]int   `json:"byMonth"`
	RecentReports []*MedicalReport `json:"recentReports"`
}

// Contact message statuses
const (
	ContactUnread  = "unread"
	ContactRead    = "read"
	ContactReplied = "replied"
)

// ValidContactStatus reports whether s is a known contact message status.
func ValidContactStatus(s string) bool {
	return s == ContactUnread || s == ContactRead || s == ContactReplied
}

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// Gin context keys shared with the middleware package
const (
	ContextUserID       = "user_id"
	ContextClaims       = "claims"
	ContextIdentity     = "identity"
	ContextExposeErrors = "expose_errors"
)

// Response is the envelope every endpoint returns
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    *domain.Profile `json:"user,omitempty"`
	Data    any             `json:"data,omitempty"`
	Exists  *bool           `json:"exists,omitempty"`
	DevOTP  string          `json:"devOtp,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, resp Response) {
	resp.Success = true
	c.JSON(status, resp)
}

// StatusFor maps an error to its HTTP status by category
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOTPResendLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// WriteError renders err in the response envelope and aborts the chain.
// Internal error detail is only included when the expose flag is set.
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := Response{Message: publicMessage(err, status)}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		if c.GetBool(ContextExposeErrors) {
			resp.Error = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

func publicMessage(err error, status int) string {
	var categorized *domain.CategorizedError
	if errors.As(err, &categorized) {
		return categorized.Message
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrOTPExpired):
		return "OTP has expired"
	case errors.Is(err, domain.ErrOTPInvalid):
		return "Invalid OTP"
	case errors.Is(err, domain.ErrOTPNotFound):
		return "No active OTP, please request a new one"
	case errors.Is(err, domain.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return "User not found"
	case errors.Is(err, domain.ErrOTPResendLimit):
		if _, detail, found := strings.Cut(err.Error(), ": "); found {
			return strings.ToUpper(detail[:1]) + detail[1:]
		}
		return "Please wait before requesting a new OTP"
	case errors.Is(err, domain.ErrUpstream):
		return "Failed to send OTP"
	}
	if status == http.StatusInternalServerError {
		return "Server error"
	}
	return http.StatusText(status)
}

// bindError reports a malformed request body as a validation error
func bindError(c *gin.Context, err error) {
	WriteError(c, domain.Invalid("Invalid request body: %s", err.Error()))
}

// currentUserID returns the authenticated identity id set by the auth middleware
func currentUserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// paramID parses a positive numeric path parameter
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		WriteError(c, domain.Invalid("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func profiles(identities []*domain.Identity) []*domain.Profile {
	out := make([]*domain.Profile, 0, len(identities))
	for _, i := range identities {
		out = append(out, i.Profile())
	}
	return out
}

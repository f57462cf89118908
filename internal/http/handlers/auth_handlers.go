package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
)

// BootstrapTokenHeader carries the one-time admin bootstrap token
const BootstrapTokenHeader = "X-Bootstrap-Token"

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	otpSvc   domain.OTPService
	tokenSvc domain.TokenService
	// exposeOTP echoes locally generated codes back to the caller outside production
	exposeOTP bool
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService, tokenSvc domain.TokenService, exposeOTP bool) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		otpSvc:    otpSvc,
		tokenSvc:  tokenSvc,
		exposeOTP: exposeOTP,
	}
}

// RegisterRequest represents registration request. Email and phone are each
// optional, but one of them is required.
type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
	BootstrapToken string `json:"bootstrapToken,omitempty"`
}

func (r RegisterRequest) input() domain.RegisterInput {
	return domain.RegisterInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Password: r.Password}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CheckUserRequest asks whether an account exists
type CheckUserRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SendOTPRequest represents an OTP issue request
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// OTPVerifyRequest represents OTP verification request
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// ProfileRequest carries the self-editable profile fields. Unknown fields,
// including role, are ignored.
type ProfileRequest struct {
	Name                 *string            `json:"name"`
	Email                *string            `json:"email"`
	Phone                *string            `json:"phone"`
	BloodGroup           *string            `json:"bloodGroup"`
	Height               *float64           `json:"height"`
	Weight               *float64           `json:"weight"`
	Allergies            *[]string          `json:"allergies"`
	Location             *string            `json:"location"`
	AdditionalHealthInfo *map[string]string `json:"additionalHealthInfo"`
}

func (r ProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:                 r.Name,
		Email:                r.Email,
		Phone:                r.Phone,
		BloodGroup:           r.BloodGroup,
		Height:               r.Height,
		Weight:               r.Weight,
		Allergies:            r.Allergies,
		Location:             r.Location,
		AdditionalHealthInfo: r.AdditionalHealthInfo,
	}
}

// CheckUser reports whether an account exists for the email or phone
func (h *AuthHandlers) CheckUser(c *gin.Context) {
	var req CheckUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	exists, err := h.authSvc.CheckUser(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		WriteError(c, err)
		return
	}

	msg := "User does not exist"
	if exists {
		msg = "An account with these details already exists"
	}
	respond(c, http.StatusOK, Response{Message: msg, Exists: &exists})
}

// Register handles self-service registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.input())
	if err != nil {
		WriteError(c, err)
		return
	}

	respond(c, http.StatusCreated, Response{
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.Identity.Profile(),
	})
}

// RegisterAdmin creates an admin. The caller is either an authenticated
// admin or presents the bootstrap token.
func (h *AuthHandlers) RegisterAdmin(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	grant := domain.AdminGrant{BootstrapToken: c.GetHeader(BootstrapTokenHeader)}
	if grant.BootstrapToken == "" {
		grant.BootstrapToken = req.BootstrapToken
	}
	if token, found := BearerToken(c); found {
		claims, err := h.tokenSvc.Validate(token)
		if err != nil {
			WriteError(c, err)
			return
		}
		principal, err := h.authSvc.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			WriteError(c, domain.ErrTokenInvalid)
			return
		}
		grant.Principal = principal
	}

	result, err := h.authSvc.RegisterAdmin(c.Request.Context(), req.input(), grant)
	if err != nil {
		WriteError(c, err)
		return
	}

	respond(c, http.StatusCreated, Response{
		Message: "Admin registered successfully",
		Token:   result.Token,
		User:    result.Identity.Profile(),
	})
}

// Login handles email+password login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}

	respond(c, http.StatusOK, Response{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.Identity.Profile(),
	})
}

// SendOTP issues a code to a registered phone
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	challenge, err := h.otpSvc.Send(c.Request.Context(), req.Phone)
	if err != nil {
		WriteError(c, err)
		return
	}

	resp := Response{Message: "OTP sent successfully"}
	if h.exposeOTP && challenge.Code != "" {
		resp.DevOTP = challenge.Code
	}
	respond(c, http.StatusOK, resp)
}

// VerifyOTP checks the code and logs the identity in
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.LoginWithOTP(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		WriteError(c, err)
		return
	}

	respond(c, http.StatusOK, Response{
		Message: "OTP verified successfully",
		Token:   result.Token,
		User:    result.Identity.Profile(),
	})
}

// GetProfile returns the caller's sanitized profile
func (h *AuthHandlers) GetProfile(c *gin.Context) {
	identity, err := h.authSvc.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{User: identity.Profile()})
}

// UpdateProfile changes the caller's own mutable fields
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	identity, err := h.authSvc.UpdateProfile(c.Request.Context(), currentUserID(c), req.patch())
	if err != nil {
		WriteError(c, err)
		return
	}
	respond(c, http.StatusOK, Response{Message: "Profile updated successfully", User: identity.Profile()})
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

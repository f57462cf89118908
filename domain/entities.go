package domain

import "time"

// Roles an identity can hold.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// HealthProfile holds the optional health attributes attached to an identity
type HealthProfile struct {
	BloodGroup     string            `json:"bloodGroup,omitempty"`
	Height         float64           `json:"height,omitempty"`
	Weight         float64           `json:"weight,omitempty"`
	Allergies      []string          `json:"allergies,omitempty"`
	Location       string            `json:"location,omitempty"`
	AdditionalInfo map[string]string `json:"additionalHealthInfo,omitempty"`
}

// Identity is a registered account. Email and Phone are empty when absent.
// PasswordHash is set only for email+password registrations, and
// OTPCode/OTPExpiresAt only while a challenge is outstanding.
type Identity struct {
	ID           uint
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	OTPCode      string
	OTPExpiresAt *time.Time
	Role         string
	Health       HealthProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the identity can use password login.
func (i *Identity) HasPassword() bool {
	return i.PasswordHash != ""
}

// HasLiveOTP reports whether a challenge exists that has not expired at now.
func (i *Identity) HasLiveOTP(now time.Time) bool {
	return i.OTPCode != "" && i.OTPExpiresAt != nil && now.Before(*i.OTPExpiresAt)
}

// SetOTP stores a challenge code; code and expiry are always set together.
func (i *Identity) SetOTP(code string, expiresAt time.Time) {
	i.OTPCode = code
	i.OTPExpiresAt = &expiresAt
}

// ClearOTP removes any outstanding challenge.
func (i *Identity) ClearOTP() {
	i.OTPCode = ""
	i.OTPExpiresAt = nil
}

// Profile returns the sanitized view of the identity. It never carries the
// password hash or OTP fields.
func (i *Identity) Profile() *Profile {
	return &Profile{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		Phone:         i.Phone,
		Role:          i.Role,
		HealthProfile: i.Health,
		CreatedAt:     i.CreatedAt,
	}
}

// Profile is the client-facing representation of an Identity
type Profile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	HealthProfile
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterInput carries self-service and admin registration fields
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// AdminGrant is the authority presented to create an admin identity:
// either an authenticated admin principal or the bootstrap token.
type AdminGrant struct {
	Principal      *Identity
	BootstrapToken string
}

// ProfilePatch is the set of fields an identity may change on itself.
// Nil fields are left untouched. There is no role field.
type ProfilePatch struct {
	Name                 *string
	Email                *string
	Phone                *string
	BloodGroup           *string
	Height               *float64
	Weight               *float64
	Allergies            *[]string
	Location             *string
	AdditionalHealthInfo *map[string]string
}

// IdentityPatch is an administrative partial update; it may change the role.
type IdentityPatch struct {
	ProfilePatch
	Role *string
}

// IdentityField names an identity attribute a partial update may write.
// Credentials and OTP state are never among them.
type IdentityField string

const (
	FieldName                 IdentityField = "name"
	FieldEmail                IdentityField = "email"
	FieldPhone                IdentityField = "phone"
	FieldRole                 IdentityField = "role"
	FieldBloodGroup           IdentityField = "blood_group"
	FieldHeight               IdentityField = "height"
	FieldWeight               IdentityField = "weight"
	FieldAllergies            IdentityField = "allergies"
	FieldLocation             IdentityField = "location"
	FieldAdditionalHealthInfo IdentityField = "additional_health_info"
)

// Fields lists the attributes the patch sets
func (p IdentityPatch) Fields() []IdentityField {
	var fields []IdentityField
	add := func(set bool, f IdentityField) {
		if set {
			fields = append(fields, f)
		}
	}
	add(p.Name != nil, FieldName)
	add(p.Email != nil, FieldEmail)
	add(p.Phone != nil, FieldPhone)
	add(p.Role != nil, FieldRole)
	add(p.BloodGroup != nil, FieldBloodGroup)
	add(p.Height != nil, FieldHeight)
	add(p.Weight != nil, FieldWeight)
	add(p.Allergies != nil, FieldAllergies)
	add(p.Location != nil, FieldLocation)
	add(p.AdditionalHealthInfo != nil, FieldAdditionalHealthInfo)
	return fields
}

// IdentityFilter narrows administrative listings
type IdentityFilter struct {
	ExcludeRole string
}

// AuthResult represents authentication outcome
type AuthResult struct {
	Identity *Identity
	Token    string
}

// OTPChallenge describes an issued one-time code. Code is only populated
// when the code was generated locally.
type OTPChallenge struct {
	Phone     string
	Code      string
	Reference string
	ExpiresAt time.Time
}

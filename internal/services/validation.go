package services

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/you/aarogyam/domain"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
	minNameLength     = 2
	dateLayout        = "2006-01-02"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Invalid("Name is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLength {
		return domain.Invalid("Name must be at least %d characters", minNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.Invalid("Please provide a valid email address")
	}
	return nil
}

func validatePhone(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return domain.Invalid("Please provide a valid phone number")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domain.Invalid("Password must be at least %d characters", minPasswordLength)
	}
	// bcrypt rejects longer input
	if len(password) > maxPasswordBytes {
		return domain.Invalid("Password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// validateRegistration checks the shape of a registration request. Email
// and phone may each be absent but not both; a password needs an email.
func validateRegistration(in domain.RegisterInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return domain.Invalid("Either email or phone number is required")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if in.Password != "" {
		if email == "" {
			return domain.Invalid("Password login requires an email address")
		}
		if err := validatePassword(in.Password); err != nil {
			return err
		}
	}
	return nil
}

// validateProfilePatch checks only the fields being changed
func validateProfilePatch(p domain.ProfilePatch) error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		if err := validateEmail(strings.TrimSpace(*p.Email)); err != nil {
			return err
		}
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) != "" {
		if err := validatePhone(*p.Phone); err != nil {
			return err
		}
	}
	if p.Height != nil && *p.Height < 0 {
		return domain.Invalid("Height must not be negative")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return domain.Invalid("Weight must not be negative")
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339 and returns the calendar day in UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Invalid("Invalid date %q, expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func validateTimeOfDay(s string) error {
	if !timePattern.MatchString(s) {
		return domain.Invalid("Invalid time format. Use HH:MM format")
	}
	return nil
}

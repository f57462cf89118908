package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestIdentity_CredentialCombinations(t *testing.T) {
	tests := []struct {
		name         string
		identity     *Identity
		wantPassword bool
		wantEmail    bool
		wantPhone    bool
	}{
		{
			name:         "email with password",
			identity:     &Identity{Email: "jane@x.com", PasswordHash: "hash"},
			wantPassword: true,
			wantEmail:    true,
		},
		{
			name:      "phone only",
			identity:  &Identity{Phone: "+919876543210"},
			wantPhone: true,
		},
		{
			name:         "email and phone",
			identity:     &Identity{Email: "both@x.com", Phone: "+919876543211", PasswordHash: "hash"},
			wantPassword: true,
			wantEmail:    true,
			wantPhone:    true,
		},
		{
			name:      "email without password",
			identity:  &Identity{Email: "otp@x.com"},
			wantEmail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.HasPassword(); got != tt.wantPassword {
				t.Errorf("HasPassword() = %v, want %v", got, tt.wantPassword)
			}
			p := tt.identity.Profile()
			if (p.Email != "") != tt.wantEmail {
				t.Errorf("profile email presence = %v, want %v", p.Email != "", tt.wantEmail)
			}
			if (p.Phone != "") != tt.wantPhone {
				t.Errorf("profile phone presence = %v, want %v", p.Phone != "", tt.wantPhone)
			}
		})
	}
}

func TestIdentity_OTPLifecycle(t *testing.T) {
	now := time.Now()
	id := &Identity{ID: 1, Phone: "+919876543210"}

	if id.HasLiveOTP(now) {
		t.Fatal("new identity should not have a live challenge")
	}

	id.SetOTP("123456", now.Add(10*time.Minute))
	if !id.HasLiveOTP(now) {
		t.Error("challenge should be live before expiry")
	}
	if id.HasLiveOTP(now.Add(11 * time.Minute)) {
		t.Error("challenge should not be live after expiry")
	}

	id.ClearOTP()
	if id.OTPCode != "" || id.OTPExpiresAt != nil {
		t.Error("ClearOTP must clear code and expiry together")
	}
}

func TestIdentity_ProfileNeverLeaksSecrets(t *testing.T) {
	expiry := time.Now().Add(time.Minute)
	id := &Identity{
		ID:           7,
		Name:         "Jane",
		Email:        "jane@x.com",
		PasswordHash: "$2a$10$secret",
		OTPCode:      "654321",
		OTPExpiresAt: &expiry,
		Role:         RolePatient,
		Health:       HealthProfile{BloodGroup: "O+", Allergies: []string{"pollen"}},
	}

	raw, err := json.Marshal(id.Profile())
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	body := string(raw)
	for _, secret := range []string{"$2a$10$secret", "654321", "password", "otp"} {
		if strings.Contains(body, secret) {
			t.Errorf("profile json leaks %q: %s", secret, body)
		}
	}
	if !strings.Contains(body, `"bloodGroup":"O+"`) {
		t.Errorf("profile json should flatten health fields: %s", body)
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RolePatient, RoleDoctor, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "user", "ADMIN"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true", r)
		}
	}
}

func TestAppointment_OwnedBy(t *testing.T) {
	owner := uint(3)
	tests := []struct {
		name string
		appt *Appointment
		id   uint
		want bool
	}{
		{"owner", &Appointment{UserID: &owner}, 3, true},
		{"someone else", &Appointment{UserID: &owner}, 4, false},
		{"anonymous booking", &Appointment{}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appt.OwnedBy(tt.id); got != tt.want {
				t.Errorf("OwnedBy(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestIdentityPatch_Fields(t *testing.T) {
	name, role := "Jane", RoleDoctor
	allergies := []string{}

	if got := (IdentityPatch{}).Fields(); len(got) != 0 {
		t.Errorf("empty patch: got %v", got)
	}

	got := IdentityPatch{
		ProfilePatch: ProfilePatch{Name: &name, Allergies: &allergies},
		Role:         &role,
	}.Fields()
	want := []IdentityField{FieldName, FieldRole, FieldAllergies}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

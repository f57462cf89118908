package domain

import "testing"

func TestPhoneNormalizer_Normalize(t *testing.T) {
	n := NewPhoneNormalizer("+91")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare ten digits", "9876543210", "+919876543210"},
		{"ten digits with spaces", "98765 43210", "+919876543210"},
		{"tabs and newlines", "\t98765\n43210 ", "+919876543210"},
		{"already canonical", "+919876543210", "+919876543210"},
		{"other country canonical", "+14155550100", "+14155550100"},
		{"eleven digits unchanged", "09876543210", "09876543210"},
		{"nine digits unchanged", "987654321", "987654321"},
		{"dashes", "987-654-3210", "+919876543210"},
		{"dash in the middle", "98765-43210", "+919876543210"},
		{"parentheses and spaces", "(98765) 43210", "+919876543210"},
		{"canonical with separators", "+91 (98765)-43210", "+919876543210"},
		{"separators on short number", "(123)-45", "12345"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPhoneNormalizer_Idempotent(t *testing.T) {
	n := NewPhoneNormalizer("")
	inputs := []string{"9876543210", "+919876543210", " 98765 43210 ", "12345", "+1 415 555 0100", "98765-43210", "(987) 654-3210", "+1 (415) 555-0100"}

	for _, raw := range inputs {
		once := n.Normalize(raw)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestPhoneNormalizer_PrefixAppliedOnce(t *testing.T) {
	n := NewPhoneNormalizer("44")
	got := n.Normalize("7911123456")
	if got != "+447911123456" {
		t.Fatalf("got %q", got)
	}
	if n.Normalize(got) != got {
		t.Errorf("prefix applied twice")
	}
}

func TestPhoneNormalizer_ZeroValueUsesDefault(t *testing.T) {
	var n PhoneNormalizer
	if got := n.Normalize("9876543210"); got != DefaultCountryCode+"9876543210" {
		t.Errorf("zero-value normalizer got %q", got)
	}
}

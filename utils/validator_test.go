package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"ops@corpbank.example", "first.last+tag@sub.domain.co"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "plainaddress", "@no-local.part", "spaces in@mail.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("short password should be rejected")
	}
	if ok, msg := ValidatePassword("long-enough-password"); !ok {
		t.Errorf("valid password rejected: %s", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  Acme Trading \x00LLC  "); got != "Acme Trading LLC" {
		t.Errorf("SanitizeInput = %q", got)
	}
}

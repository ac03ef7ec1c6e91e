package utils

import "testing"

func TestValidateCNPJ(t *testing.T) {
	if !ValidateCNPJ("12.345.678/0001-90") {
		t.Error("Expected formatted CNPJ to validate")
	}

	bad := []string{"12345678000190", "12.345.678/0001-9", "ab.cde.fgh/ijkl-mn", ""}
	for _, v := range bad {
		if ValidateCNPJ(v) {
			t.Errorf("Expected %q to be rejected", v)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("fiscal@sistema.gov.br") {
		t.Error("Expected valid email to pass")
	}
	if ValidateEmail("not-an-email") {
		t.Error("Expected invalid email to fail")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("Expected 'helloworld', got %q", got)
	}
}

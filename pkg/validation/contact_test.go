package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "client@example.com"},
		{name: "subdomain", email: "a.b@mail.example.co.in"},
		{name: "empty", email: "", wantErr: true},
		{name: "blank", email: "   ", wantErr: true},
		{name: "missing at", email: "client.example.com", wantErr: true},
		{name: "missing domain", email: "client@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("INR"))
	assert.NoError(t, ValidateCurrency("USD"))
	assert.Error(t, ValidateCurrency("inr"))
	assert.Error(t, ValidateCurrency("RUPEE"))
	assert.Error(t, ValidateCurrency("I1R"))
	assert.Error(t, ValidateCurrency(""))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("9876543210"))
	assert.NoError(t, ValidatePhone("+91 98765-43210"))
	assert.Error(t, ValidatePhone("12345"))
	assert.Error(t, ValidatePhone("98765abc10"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "client@example.com", NormalizeEmail("  Client@Example.COM "))
	assert.Equal(t, "+919876543210", NormalizePhone("+91 (98765) 43210"))
}

func TestTelegramUsername(t *testing.T) {
	assert.Equal(t, "priya_dev", NormalizeTelegramUsername(" @Priya_Dev "))

	for _, ok := range []string{"priya", "priya_dev", "a1234"} {
		assert.NoError(t, ValidateTelegramUsername(ok), ok)
	}
	for _, bad := range []string{"", "abc", "1priya", "priya-dev", "@priya", strings.Repeat("a", 33)} {
		assert.Error(t, ValidateTelegramUsername(bad), bad)
	}
}

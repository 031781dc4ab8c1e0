package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	telegramUsername = regexp.MustCompile(`^[a-z][a-z0-9_]{4,31}$`)
)

func init() {
	_ = validate.RegisterValidation("telegram_username", func(fl validator.FieldLevel) bool {
		return telegramUsername.MatchString(fl.Field().String())
	})
}

// ValidateEmail checks that addr is a syntactically valid email address.
func ValidateEmail(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if err := validate.Var(addr, "email"); err != nil {
		return fmt.Errorf("invalid email address %q", addr)
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ValidateCurrency checks for a three letter uppercase ISO 4217 style code.
func ValidateCurrency(code string) error {
	if err := validate.Var(code, "len=3,alpha,uppercase"); err != nil {
		return fmt.Errorf("invalid currency code %q: expected three uppercase letters", code)
	}
	return nil
}

// NormalizePhone strips spaces, dashes and parentheses, keeping a leading '+'.
func NormalizePhone(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// ValidatePhone accepts an empty value or 7 to 15 digits with an optional leading '+'.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	if err := validate.Var(digits, "numeric,min=7,max=15"); err != nil {
		return fmt.Errorf("invalid phone number %q", phone)
	}
	return nil
}

// NormalizeTelegramUsername lowercases a username and drops a leading '@'.
func NormalizeTelegramUsername(username string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(username)), "@")
}

// ValidateTelegramUsername expects a normalized username of 5 to 32 characters.
func ValidateTelegramUsername(username string) error {
	if err := validate.Var(username, "telegram_username"); err != nil {
		return fmt.Errorf("invalid telegram username %q", username)
	}
	return nil
}

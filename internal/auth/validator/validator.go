// Package validator registers the auth-specific validation rules.
package validator

import (
	"unicode"
	"unicode/utf8"

	platformvalidator "magnetlab_backend/platform/validator"

	"github.com/go-playground/validator/v10"
)

// StrongPasswordTag is the struct tag of the password complexity rule.
const StrongPasswordTag = "strongpassword"

const minPasswordLength = 8

// Register adds the auth rules to val.
func Register(val *platformvalidator.Validator) error {
	return val.RegisterValidation(StrongPasswordTag, func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
}

// IsStrongPassword requires at least eight characters drawn from all four
// classes: upper case, lower case, digit and punctuation or symbol.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}

	classes := [...]func(rune) bool{
		unicode.IsUpper,
		unicode.IsLower,
		unicode.IsDigit,
		func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) },
	}
	var seen [len(classes)]bool
	for _, r := range password {
		for i, in := range classes {
			if in(r) {
				seen[i] = true
			}
		}
	}
	for _, ok := range seen {
		if !ok {
			return false
		}
	}
	return true
}

package validator

import (
	"filevault/internal/models"
	"strings"
	"unicode/utf8"
)

const minPasswordLen = 6

func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return models.ErrFieldsRequired
	}

	if utf8.RuneCountInString(password) < minPasswordLen {
		return models.ErrPasswordTooShort
	}

	return nil
}

func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.ErrCredentialsRequired
	}

	return nil
}

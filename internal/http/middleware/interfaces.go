package middleware

import (
	"filevault/internal/models"
)

const pkg = "middleware/"

type TokenVerifier interface {
	VerifyAccess(token string) (*models.Identity, error)
}

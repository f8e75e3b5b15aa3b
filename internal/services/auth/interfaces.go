package authservice

import (
	"context"
	"filevault/internal/models"
)

type UserAdder interface {
	AddUser(ctx context.Context, user models.User) error
}

type UserProvider interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(plain string) ([]byte, error)
	Compare(plain string, hash []byte) (bool, error)
}

type TokenIssuer interface {
	Issue(identity models.Identity) (*models.AuthTokens, error)
	VerifyRefresh(token string) (*models.Identity, error)
}

package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the principal carried by a verified token.
type Identity struct {
	ID    string
	Email string
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

type contextKey string

const UserContextKey contextKey = "user"

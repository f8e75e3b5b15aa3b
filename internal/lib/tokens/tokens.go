// Package tokens issues and verifies the access/refresh JWT pair.
//
// Access and refresh tokens are signed with distinct HS256 secrets, so a leaked
// access token can never be replayed against the refresh endpoint.
package tokens

import (
	"errors"
	"filevault/internal/models"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/satori/go.uuid"
)

const pkg = "tokens/"

type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func New(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...Option) (*Manager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New(pkg + "New: secrets must not be empty")
	}

	if accessSecret == refreshSecret {
		return nil, errors.New(pkg + "New: access and refresh secrets must differ")
	}

	m := &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

func (m *Manager) Issue(identity models.Identity) (*models.AuthTokens, error) {
	op := pkg + "Issue"

	access, err := m.sign(identity, m.accessSecret, m.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: access: %w", op, err)
	}

	refresh, err := m.sign(identity, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: refresh: %w", op, err)
	}

	return &models.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) VerifyAccess(token string) (*models.Identity, error) {
	return m.verify(token, m.accessSecret)
}

func (m *Manager) VerifyRefresh(token string) (*models.Identity, error) {
	return m.verify(token, m.refreshSecret)
}

func (m *Manager) sign(identity models.Identity, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewV4().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(secret)
}

func (m *Manager) verify(tokenString string, secret []byte) (*models.Identity, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, models.ErrInvalidToken
	}

	return &models.Identity{ID: claims.UserID, Email: claims.Email}, nil
}

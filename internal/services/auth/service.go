package authservice

import (
	"context"
	"errors"
	"filevault/internal/models"
	"filevault/internal/validator"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "authService/"

type AuthService struct {
	log          *slog.Logger
	userAdder    UserAdder
	userProvider UserProvider
	hasher       PasswordHasher
	tokens       TokenIssuer
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider,
	hasher PasswordHasher,
	tokens TokenIssuer,
) *AuthService {
	return &AuthService{
		log:          log,
		userAdder:    userAdder,
		userProvider: userProvider,
		hasher:       hasher,
		tokens:       tokens,
	}
}

func (a *AuthService) Register(ctx context.Context, name string, email string, password string) (*models.User, *models.AuthTokens, error) {
	op := pkg + "Register"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to register user")

	if err := validator.ValidateRegistration(name, email, password); err != nil {
		log.Warn("invalid registration params", slog.String("error", err.Error()))
		return nil, nil, err
	}

	_, err := a.userProvider.UserByEmail(ctx, email)
	switch {
	case err == nil:
		log.Warn("user already exists")
		return nil, nil, models.ErrUserExists
	case !errors.Is(err, models.ErrUserNotFound):
		log.Error("failed to check existing user", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	passHash, err := a.hasher.Hash(password)
	if err != nil {
		log.Error("failed to generate password hash", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	user := models.User{
		ID:        uuid.NewV4().String(),
		Name:      name,
		Email:     email,
		PassHash:  passHash,
		CreatedAt: time.Now().UTC(),
	}

	err = a.userAdder.AddUser(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			log.Warn("user already exists")
			return nil, nil, models.ErrUserExists
		}

		log.Error("failed to add user", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	tokens, err := a.tokens.Issue(models.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		log.Error("failed to issue tokens", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user registered successfully", slog.String("user_id", user.ID))

	return &user, tokens, nil
}

func (a *AuthService) Login(ctx context.Context, email string, password string) (*models.User, *models.AuthTokens, error) {
	op := pkg + "Login"

	log := a.log.With(
		slog.String("op", op),
	)

	log.Debug("attempting to login user")

	if err := validator.ValidateCredentials(email, password); err != nil {
		log.Warn("invalid login params", slog.String("error", err.Error()))
		return nil, nil, err
	}

	user, err := a.userProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("user not found")
			return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}

		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if len(user.PassHash) == 0 {
		log.Info("user has no password hash", slog.String("user_id", user.ID))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	ok, err := a.hasher.Compare(password, user.PassHash)
	if err != nil {
		log.Error("failed to compare password hash", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !ok {
		log.Info("invalid credentials", slog.String("user_id", user.ID))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	tokens, err := a.tokens.Issue(models.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		log.Error("failed to issue tokens", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("user logged in successfully", slog.String("user_id", user.ID))

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	op := pkg + "Refresh"

	log := a.log.With(slog.String("op", op))

	log.Debug("attempting to refresh tokens")

	if refreshToken == "" {
		log.Info("no refresh token provided")
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	identity, err := a.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		log.Info("invalid refresh token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	user, err := a.userProvider.UserByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Info("user from refresh token no longer exists", slog.String("user_id", identity.ID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	tokens, err := a.tokens.Issue(models.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		log.Error("failed to issue tokens", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("tokens refreshed successfully", slog.String("user_id", user.ID))

	return tokens, nil
}

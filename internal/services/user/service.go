package userservice

import (
	"context"
	"errors"
	"filevault/internal/models"
	"log/slog"
)

const pkg = "userService/"

type UserService struct {
	log          *slog.Logger
	userAdder    UserAdder
	userProvider UserProvider
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider) *UserService {
	return &UserService{
		log:          log,
		userAdder:    userAdder,
		userProvider: userProvider,
	}
}

// emailConstraint is the unique constraint guarding users.email.
const emailConstraint = "users_email_key"

// AddUser stores a new user. Only a clash on the email constraint means the
// account exists; any other failure is reported as a failed insert.
func (u *UserService) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to add user")

	err := u.userAdder.AddUser(ctx, user)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) && uce.Constraint == emailConstraint {
			log.Warn("email already registered")
			return models.ErrUserExists
		}
		log.Error("failed to add user", slog.String("error", err.Error()))
		return models.ErrFailedToAddUser
	}

	log.Debug("user added successfully", slog.String("user_id", user.ID))

	return nil
}

func (u *UserService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return u.lookup(ctx, pkg+"UserByID", slog.String("user_id", id), func() (*models.User, error) {
		return u.userProvider.UserByID(ctx, id)
	})
}

func (u *UserService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.lookup(ctx, pkg+"UserByEmail", slog.String("by", "email"), func() (*models.User, error) {
		return u.userProvider.UserByEmail(ctx, email)
	})
}

// lookup runs find and collapses every failure other than a missing user into ErrInternal.
func (u *UserService) lookup(ctx context.Context, op string, key slog.Attr, find func() (*models.User, error)) (*models.User, error) {
	log := u.log.With(slog.String("op", op), key)

	log.Debug("attempting to get user")

	user, err := find()
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("user not found")
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully", slog.String("user_id", user.ID))

	return user, nil
}

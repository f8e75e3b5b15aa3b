package models

import (
	"errors"
	"fmt"
)

var (
	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
	ErrFailedToAddUser        = errors.New("failed to add user")
	ErrInternal               = errors.New("internal server error")
	ErrForbidden              = errors.New("access denied")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidParams          = errors.New("invalid params")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrFileNotFound           = errors.New("file not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrHashFormat             = errors.New("malformed password hash")
	ErrStorage                = errors.New("storage error")
	ErrStorageNotConfigured   = errors.New("storage is not configured")
	ErrUpstream               = errors.New("upstream storage unavailable")
	ErrObjectExists           = errors.New("file already exists in storage")
	ErrFileTooLarge           = errors.New("file exceeds the size limit")
	ErrMissingFilename        = errors.New("file name is missing")
)

var (
	ErrFieldsRequired      = fmt.Errorf("%w: all fields are required", ErrInvalidParams)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidParams)
	ErrCredentialsRequired = fmt.Errorf("%w: email and password are required", ErrInvalidParams)
	ErrNoFiles             = fmt.Errorf("%w: no files provided", ErrInvalidParams)
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}

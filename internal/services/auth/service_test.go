package authservice

import (
	"context"
	"errors"
	"filevault/internal/lib/password"
	"filevault/internal/lib/tokens"
	"filevault/internal/models"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserAdder struct {
	mock.Mock
}

func (m *MockUserAdder) AddUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(*models.User), args.Error(1)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(plain string) ([]byte, error) {
	args := m.Called(plain)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockHasher) Compare(plain string, hash []byte) (bool, error) {
	args := m.Called(plain, hash)
	return args.Bool(0), args.Error(1)
}

type fixture struct {
	service  *AuthService
	adder    *MockUserAdder
	provider *MockUserProvider
	hasher   *password.Hasher
	tokens   *tokens.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	manager, err := tokens.New("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	f := &fixture{
		adder:    new(MockUserAdder),
		provider: new(MockUserProvider),
		hasher:   password.New(bcrypt.MinCost),
		tokens:   manager,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = New(log, f.adder, f.provider, f.hasher, f.tokens)
	return f
}

func (f *fixture) storedUser(t *testing.T, plain string) *models.User {
	t.Helper()

	hash, err := f.hasher.Hash(plain)
	require.NoError(t, err)

	return &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", PassHash: hash}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrUserNotFound)
	f.adder.On("AddUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.ID != "" && u.Name == "Ann" && u.Email == "ann@example.com" && len(u.PassHash) > 0
	})).Return(nil)

	user, pair, err := f.service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, []byte("secret1"), user.PassHash)

	identity, err := f.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	identity, err = f.tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	f.adder.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "missing name", email: "a@b.c", password: "secret1", wantErr: models.ErrFieldsRequired},
		{name: "missing email", userName: "Ann", password: "secret1", wantErr: models.ErrFieldsRequired},
		{name: "missing password", userName: "Ann", email: "a@b.c", wantErr: models.ErrFieldsRequired},
		{name: "short password", userName: "Ann", email: "a@b.c", password: "12345", wantErr: models.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			user, pair, err := f.service.Register(context.Background(), tt.userName, tt.email, tt.password)
			assert.Nil(t, user)
			assert.Nil(t, pair)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, models.ErrInvalidParams)

			f.provider.AssertNotCalled(t, "UserByEmail", mock.Anything, mock.Anything)
			f.adder.AssertNotCalled(t, "AddUser", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(&models.User{ID: "u0"}, nil)

	_, _, err := f.service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrUserExists)
	f.adder.AssertNotCalled(t, "AddUser", mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrUserNotFound)
	f.adder.On("AddUser", mock.Anything, mock.Anything).Return(models.ErrUserExists)

	_, _, err := f.service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestRegister_LookupFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrInternal)

	_, _, err := f.service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestRegister_AddFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrUserNotFound)
	f.adder.On("AddUser", mock.Anything, mock.Anything).Return(models.ErrFailedToAddUser)

	_, _, err := f.service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestRegister_HashFails(t *testing.T) {
	t.Parallel()

	manager, err := tokens.New("a", "b", time.Minute, time.Hour)
	require.NoError(t, err)

	provider := new(MockUserProvider)
	hasher := new(MockHasher)
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)), new(MockUserAdder), provider, hasher, manager)

	provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrUserNotFound)
	hasher.On("Hash", "secret1").Return([]byte(nil), errors.New("entropy"))

	_, _, err = service.Register(context.Background(), "Ann", "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stored := f.storedUser(t, "secret1")

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(stored, nil)

	user, pair, err := f.service.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, stored, user)

	identity, err := f.tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "ann@example.com", identity.Email)
}

func TestRegister_LongPassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	long := strings.Repeat("p", 80)

	var stored models.User
	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrUserNotFound).Once()
	f.adder.On("AddUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.User)
	}).Return(nil)

	_, _, err := f.service.Register(context.Background(), "Ann", "ann@example.com", long)
	require.NoError(t, err)

	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(&stored, nil)

	user, _, err := f.service.Login(context.Background(), "ann@example.com", long)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "Ann@Example.com").Return((*models.User)(nil), models.ErrUserNotFound)
	f.adder.On("AddUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "Ann@Example.com"
	})).Return(nil)

	user, _, err := f.service.Register(context.Background(), "Ann", "Ann@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ann@Example.com", user.Email)

	f.provider.AssertNotCalled(t, "UserByEmail", mock.Anything, "ann@example.com")
	f.adder.AssertExpectations(t)
}

func TestLogin_EmailCaseMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	f.provider.On("UserByEmail", mock.Anything, "ANN@example.com").Return((*models.User)(nil), models.ErrUserNotFound)

	_, _, err := f.service.Login(context.Background(), "ANN@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	f.provider.AssertNotCalled(t, "UserByEmail", mock.Anything, "ann@example.com")
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, _, err := f.service.Login(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, models.ErrCredentialsRequired)

	_, _, err = f.service.Login(context.Background(), "ann@example.com", "")
	assert.ErrorIs(t, err, models.ErrCredentialsRequired)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.provider.On("UserByEmail", mock.Anything, "ghost@example.com").Return((*models.User)(nil), models.ErrUserNotFound)

		_, _, err := f.service.Login(context.Background(), "ghost@example.com", "secret1")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(f.storedUser(t, "secret1"), nil)

		_, _, err := f.service.Login(context.Background(), "ann@example.com", "secret2")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("no stored hash", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(&models.User{ID: "u1", Email: "ann@example.com"}, nil)

		_, _, err := f.service.Login(context.Background(), "ann@example.com", "secret1")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}

func TestLogin_MalformedHash(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return(&models.User{ID: "u1", PassHash: []byte("plain")}, nil)

	_, _, err := f.service.Login(context.Background(), "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInternal)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_LookupFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.provider.On("UserByEmail", mock.Anything, "ann@example.com").Return((*models.User)(nil), models.ErrInternal)

	_, _, err := f.service.Login(context.Background(), "ann@example.com", "secret1")
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestRefresh_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stored := f.storedUser(t, "secret1")

	first, err := f.tokens.Issue(models.Identity{ID: stored.ID, Email: stored.Email})
	require.NoError(t, err)

	f.provider.On("UserByID", mock.Anything, "u1").Return(stored, nil)

	second, err := f.service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	identity, err := f.tokens.VerifyAccess(second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
}

func TestRefresh_Rejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	pair, err := f.tokens.Issue(models.Identity{ID: "u1", Email: "ann@example.com"})
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.service.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.service.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	f.provider.AssertNotCalled(t, "UserByID", mock.Anything, mock.Anything)
}

func TestRefresh_UserGone(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	pair, err := f.tokens.Issue(models.Identity{ID: "u1", Email: "ann@example.com"})
	require.NoError(t, err)

	f.provider.On("UserByID", mock.Anything, "u1").Return((*models.User)(nil), models.ErrUserNotFound)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

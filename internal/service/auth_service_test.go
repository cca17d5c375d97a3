package service

import (
	"context"
	"testing"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

// MockUserRepository is a testify mock for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetPasswordHash(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *MockUserRepository) Create(ctx context.Context, user *models.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepository) List(ctx context.Context, page repository.Page) ([]models.User, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.User), args.Error(1)
}

func newAuthFixture(t *testing.T) (*AuthService, *MockUserRepository, *miniredis.Miniredis, *auth.TokenIssuer) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := new(MockUserRepository)
	tokens := auth.NewTokenIssuer(testSecret, 7*24*time.Hour)
	svc := NewAuthService(users, auth.NewRedisSessionStore(rdb, time.Hour), tokens)
	return svc, users, mr, tokens
}

func hashFor(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Login(t *testing.T) {
	alice := &models.User{ID: 1, Email: "alice@remix.run", Role: models.RoleAdmin}

	t.Run("valid credentials bind session and token to the user", func(t *testing.T) {
		svc, users, mr, tokens := newAuthFixture(t)
		users.On("GetByEmail", mock.Anything, "alice@remix.run").Return(alice, nil)
		users.On("GetPasswordHash", mock.Anything, uint(1)).Return(hashFor(t, "aliceiscool"), nil)

		res, err := svc.Login(context.Background(), LoginInput{Email: " Alice@Remix.run ", Password: "aliceiscool"})
		require.NoError(t, err)
		assert.Equal(t, uint(1), res.User.ID)
		assert.True(t, mr.Exists("session:"+res.SessionID))

		claims, err := tokens.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	})

	t.Run("wrong password creates no session", func(t *testing.T) {
		svc, users, mr, _ := newAuthFixture(t)
		users.On("GetByEmail", mock.Anything, "alice@remix.run").Return(alice, nil)
		users.On("GetPasswordHash", mock.Anything, uint(1)).Return(hashFor(t, "aliceiscool"), nil)

		res, err := svc.Login(context.Background(), LoginInput{Email: "alice@remix.run", Password: "wrong-password"})
		assert.Nil(t, res)
		assertAppError(t, err, models.CodeUnauthorized, "Invalid credentials")
		assert.Empty(t, mr.Keys())
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc, users, mr, _ := newAuthFixture(t)
		users.On("GetByEmail", mock.Anything, "nobody@remix.run").Return(nil, nil)

		_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@remix.run", Password: "whatever1"})
		assertAppError(t, err, models.CodeUnauthorized, "Invalid credentials")
		users.AssertNotCalled(t, "GetPasswordHash", mock.Anything, mock.Anything)
		assert.Empty(t, mr.Keys())
	})

	t.Run("prior session is destroyed", func(t *testing.T) {
		svc, users, mr, _ := newAuthFixture(t)
		users.On("GetByEmail", mock.Anything, "alice@remix.run").Return(alice, nil)
		users.On("GetPasswordHash", mock.Anything, uint(1)).Return(hashFor(t, "aliceiscool"), nil)

		first, err := svc.Login(context.Background(), LoginInput{Email: "alice@remix.run", Password: "aliceiscool"})
		require.NoError(t, err)
		second, err := svc.Login(context.Background(), LoginInput{
			Email: "alice@remix.run", Password: "aliceiscool", PriorSessionID: first.SessionID,
		})
		require.NoError(t, err)

		assert.NotEqual(t, first.SessionID, second.SessionID)
		assert.False(t, mr.Exists("session:"+first.SessionID))
		assert.True(t, mr.Exists("session:"+second.SessionID))
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture(t)
		_, err := svc.Login(context.Background(), LoginInput{Email: "alice@remix.run"})
		assertAppError(t, err, models.CodeValidation, "")
	})
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name     string
		in       SignupInput
		wantCode string
	}{
		{name: "missing name", in: SignupInput{Email: "d@x.io", Username: "dana", Password: "longenough"}, wantCode: models.CodeValidation},
		{name: "bad email", in: SignupInput{Name: "Dana", Email: "not-an-email", Username: "dana", Password: "longenough"}, wantCode: models.CodeValidation},
		{name: "short password", in: SignupInput{Name: "Dana", Email: "d@x.io", Username: "dana", Password: "short"}, wantCode: models.CodeValidation},
		{name: "bad username", in: SignupInput{Name: "Dana", Email: "d@x.io", Username: "-dana", Password: "longenough"}, wantCode: models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _ := newAuthFixture(t)
			_, err := svc.Signup(context.Background(), tt.in)
			assertAppError(t, err, tt.wantCode, "")
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("creates user, session and token", func(t *testing.T) {
		svc, users, mr, _ := newAuthFixture(t)
		users.On("Create", mock.Anything, mock.AnythingOfType("*models.User"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*models.User)
				u.ID = 9
				assert.True(t, bcrypt.CompareHashAndPassword([]byte(args.String(2)), []byte("longenough")) == nil)
			}).Return(nil)

		res, err := svc.Signup(context.Background(), SignupInput{
			Name: "Dana", Email: "Dana@X.io", Username: "dana", Password: "longenough",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(9), res.User.ID)
		assert.Equal(t, "dana@x.io", res.User.Email)
		assert.True(t, mr.Exists("session:"+res.SessionID))
		assert.NotEmpty(t, res.Token)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, mr, _ := newAuthFixture(t)
		users.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(models.NewConflictError("Email or username already in use."))

		_, err := svc.Signup(context.Background(), SignupInput{
			Name: "Dana", Email: "d@x.io", Username: "dana", Password: "longenough",
		})
		assertAppError(t, err, models.CodeConflict, "Email or username already in use.")
		assert.Empty(t, mr.Keys())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("expired but validly signed token for a live user", func(t *testing.T) {
		svc, users, _, tokens := newAuthFixture(t)
		users.On("GetByID", mock.Anything, uint(3)).Return(&models.User{ID: 3, Role: models.RoleUser}, nil)

		expired, _, err := auth.NewTokenIssuer(testSecret, -time.Hour).Issue(3, models.RoleUser)
		require.NoError(t, err)
		_, err = tokens.Parse(expired)
		require.Error(t, err)

		fresh, exp, err := svc.Refresh(context.Background(), expired)
		require.NoError(t, err)
		assert.True(t, exp.After(time.Now()))
		claims, err := tokens.Parse(fresh)
		require.NoError(t, err)
		assert.Equal(t, uint(3), claims.UserID)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, users, _, tokens := newAuthFixture(t)
		users.On("GetByID", mock.Anything, uint(3)).Return(nil, models.NewNotFoundError("User", 3))

		token, _, err := tokens.Issue(3, models.RoleUser)
		require.NoError(t, err)

		_, _, err = svc.Refresh(context.Background(), token)
		assertAppError(t, err, models.CodeUnauthorized, "Account no longer exists")
	})

	t.Run("tampered token never reaches the user lookup", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(t)

		forged, _, err := auth.NewTokenIssuer("some-other-secret-entirely-not-ours", time.Hour).Issue(3, models.RoleAdmin)
		require.NoError(t, err)

		_, _, err = svc.Refresh(context.Background(), forged)
		assertAppError(t, err, models.CodeUnauthorized, "Invalid token")
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("empty token", func(t *testing.T) {
		svc, users, _, _ := newAuthFixture(t)
		_, _, err := svc.Refresh(context.Background(), "")
		assertAppError(t, err, models.CodeUnauthorized, "")
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	svc, users, mr, _ := newAuthFixture(t)
	users.On("GetByEmail", mock.Anything, "bob@remix.run").Return(&models.User{ID: 2, Role: models.RoleUser}, nil)
	users.On("GetPasswordHash", mock.Anything, uint(2)).Return(hashFor(t, "bobiscool"), nil)

	res, err := svc.Login(context.Background(), LoginInput{Email: "bob@remix.run", Password: "bobiscool"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.SessionID))
	assert.False(t, mr.Exists("session:"+res.SessionID))
	require.NoError(t, svc.Logout(context.Background(), res.SessionID))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

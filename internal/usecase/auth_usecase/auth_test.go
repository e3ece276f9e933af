package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/repository/repotest"
	"storefront/internal/session"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

const testSecret = "test-secret"

func hashed(t *testing.T, plain string) string {
	t.Helper()
	h, err := auth.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(plain)
	require.NoError(t, err)
	return h
}

func newRegister(users *repotest.Users) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(users, auth.NewBcryptPasswordHasher(bcrypt.MinCost), &repotest.SeqIDs{}, repotest.FixedClock{T: now})
}

func TestRegister_Success(t *testing.T) {
	users := repotest.NewUsers()

	out, err := newRegister(users).Execute(context.Background(), auth.RegisterUserInput{
		Email:    "  Alice@Example.COM ",
		Password: "correct horse",
		FullName: " Alice Tan ",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Equal(t, "Alice Tan", out.User.FullName)
	assert.True(t, out.User.IsActive)
	assert.False(t, out.User.IsAdmin)
	assert.NotEqual(t, "correct horse", out.User.PasswordHash)

	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, auth.NewBcryptPasswordVerifier().Verify("correct horse", stored.PasswordHash))
}

func TestRegister_Rejects(t *testing.T) {
	users := repotest.NewUsers(model.User{ID: "u-1", Email: "taken@example.com", IsActive: true})

	cases := []struct {
		name string
		in   auth.RegisterUserInput
		want error
	}{
		{"bad email", auth.RegisterUserInput{Email: "not-an-email", Password: "correct horse"}, auth.ErrInvalidEmailFormat},
		{"short password", auth.RegisterUserInput{Email: "new@example.com", Password: "short"}, auth.ErrPasswordTooShort},
		{"weak password", auth.RegisterUserInput{Email: "new@example.com", Password: "Password123"}, auth.ErrWeakPassword},
		{"duplicate email", auth.RegisterUserInput{Email: "TAKEN@example.com", Password: "correct horse"}, auth.ErrEmailAlreadyExists},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newRegister(users).Execute(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	users := repotest.NewUsers(model.User{
		ID: "u-1", Email: "alice@example.com", PasswordHash: hashed(t, "correct horse"),
		IsActive: true, IsAdmin: true, TokenVersion: 3,
	})
	issuedAt := time.Now().UTC()
	uc := auth.NewLoginUsecase(users, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(testSecret, 15*time.Minute), repotest.FixedClock{T: issuedAt})

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "Alice@example.com", Password: "correct horse"})

	require.NoError(t, err)
	assert.Equal(t, 900, out.Token.ExpiresIn)
	assert.Equal(t, 3, out.Token.TokenVersion)
	require.NotNil(t, out.User.LastLoginAt)

	parsed, err := jwt.Parse(out.Token.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "u-1", claims[auth.ClaimSubject])
	assert.Equal(t, "alice@example.com", claims[auth.ClaimEmail])
	assert.Equal(t, true, claims[auth.ClaimIsAdmin])
	assert.Equal(t, float64(3), claims[auth.ClaimTokenVersion])
}

func TestLogin_Failures(t *testing.T) {
	users := repotest.NewUsers(
		model.User{ID: "u-1", Email: "alice@example.com", PasswordHash: hashed(t, "correct horse"), IsActive: true},
		model.User{ID: "u-2", Email: "gone@example.com", PasswordHash: hashed(t, "correct horse"), IsActive: false},
	)
	uc := auth.NewLoginUsecase(users, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(testSecret, time.Minute), repotest.FixedClock{T: now})
	ctx := context.Background()

	_, err := uc.Execute(ctx, auth.LoginInput{Email: "alice@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = uc.Execute(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = uc.Execute(ctx, auth.LoginInput{Email: "gone@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)

	users.FindErr = errors.New("db down")
	_, err = uc.Execute(ctx, auth.LoginInput{Email: "alice@example.com", Password: "correct horse"})
	assert.True(t, usecase.IsKind(err, usecase.KindBackend))
}

func TestLogout_BumpsTokenVersion(t *testing.T) {
	users := repotest.NewUsers(model.User{ID: "u-1", Email: "alice@example.com", TokenVersion: 1, IsActive: true})
	uc := auth.NewLogoutUsecase(users)

	require.NoError(t, uc.Execute(context.Background(), session.New("u-1", "alice@example.com", false)))

	u, err := users.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, u.TokenVersion)

	err = uc.Execute(context.Background(), session.Anonymous())
	assert.True(t, usecase.IsKind(err, usecase.KindUnauthenticated))
}

func TestJWTIssuer_EmptySecret(t *testing.T) {
	_, _, err := auth.NewJWTIssuer("", time.Minute).Issue(model.User{ID: "u-1"}, now)
	assert.Error(t, err)
}

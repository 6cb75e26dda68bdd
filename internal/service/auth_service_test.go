package service

import (
	"context"
	"os"
	"testing"
	"time"

	"shopapi/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func newAuthFixture() (AuthService, *stubUserRepo, *stubTokenRepo) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	return NewAuthService(users, tokens, testSecret), users, tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "alice", reg.User.Username)
	assert.NotEmpty(t, reg.Token)
	assert.NotEqual(t, "s3cret-pass", users.byName["alice"].PasswordHash)

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, reg.Token, login.Token, "one token per user")
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password2"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "username", fe.Field)
	assert.Equal(t, usernameTaken, fe.Message)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "bob", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, reg.User.ID, id.UserID.String())
	assert.False(t, id.IsStaff)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  reg.User.ID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	// validly signed but never stored
	unstored, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: reg.User.ID,
		ID:      "not-issued",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, key := range map[string]string{
		"garbage":  "abc",
		"empty":    "",
		"forged":   forged,
		"unstored": unstored,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
	assert.Len(t, tokens.byUser, 1)
}

func TestAuthService_AuthenticateLoadsCurrentUser(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()
	reg, err := svc.Register(ctx, dto.RegisterRequest{Username: "alice", Password: "password1"})
	require.NoError(t, err)

	// staff flag changes after the token was issued
	users.byName["alice"].IsStaff = true
	id, err := svc.Authenticate(ctx, reg.Token)
	require.NoError(t, err)
	assert.True(t, id.IsStaff)

	users.delete("alice")
	_, err = svc.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// Package tests contains end-to-end acceptance tests for the Feast API.
package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/feast/api/internal/repository"
	"github.com/forgo/feast/api/internal/service"
	"github.com/forgo/feast/api/internal/testing/fixtures"
	"github.com/forgo/feast/api/internal/testing/helpers"
	"github.com/forgo/feast/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: Authentication
DOMAIN: Auth

ACCEPTANCE CRITERIA:
===================

AC-AUTH-001: Register with Email/Password
  GIVEN valid email, unique username, and password (8+ chars)
  WHEN user submits registration
  THEN user is created with hashed password
  AND access token + refresh token returned
  AND user can authenticate with credentials

AC-AUTH-002: Register Duplicate Email
  GIVEN an existing user with email X
  WHEN new user registers with email X
  THEN request fails with email already exists error

AC-AUTH-003: Register Duplicate Username
  GIVEN an existing user with username X
  WHEN new user registers with username X
  THEN request fails with username taken error

AC-AUTH-004: Login with Valid Credentials
  GIVEN registered user with email/password
  WHEN user logs in with correct credentials
  THEN access token + refresh token returned
  AND tokens are valid for authentication

AC-AUTH-005: Login with Invalid Credentials
  GIVEN registered user
  WHEN user logs in with wrong password
  THEN request fails with invalid credentials error

AC-AUTH-006: Refresh Token
  GIVEN valid refresh token
  WHEN user requests token refresh
  THEN new access token returned
  AND old refresh token invalidated (rotation)

AC-AUTH-007: Logout Revokes Tokens
  GIVEN authenticated user
  WHEN user logs out
  THEN refresh token is invalidated
  AND subsequent refresh requests fail

AC-AUTH-008: Change Password
  GIVEN authenticated user
  WHEN user changes password with correct current password
  THEN new password works for login
  AND the old password is rejected
*/

// createAuthService creates an AuthService instance for testing
func createAuthService(t *testing.T, tdb *testdb.TestDB) *service.AuthService {
	t.Helper()

	userRepo := repository.NewUserRepository(tdb.DB)
	tokenRepo := repository.NewTokenRepository(tdb.DB)

	jwtService := helpers.NewTestJWTService(t)

	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      jwtService,
		TokenRepo:       tokenRepo,
		RefreshDuration: 24 * time.Hour,
	})

	return service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})
}

func TestAuth_RegisterWithEmailPassword(t *testing.T) {
	// AC-AUTH-001: Register with Email/Password
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterRequest{
		Email:     "newuser@test.local",
		Username:  "newuser",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.User)
	require.NotNil(t, result.TokenPair)

	assert.NotEmpty(t, result.User.ID)
	assert.Equal(t, "newuser@test.local", result.User.Email)
	assert.Equal(t, "newuser", result.User.Username)

	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenPair.TokenType)

	// Verify user can authenticate
	claims, err := authService.ValidateAccessToken(result.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestAuth_RegisterPasswordValidation(t *testing.T) {
	// AC-AUTH-001 (validation): Password must be 8+ characters
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "empty password",
			password: "",
			wantErr:  service.ErrPasswordRequired,
		},
		{
			name:     "too short password",
			password: "1234567",
			wantErr:  service.ErrPasswordTooShort,
		},
		{
			name:     "exactly 8 chars is valid",
			password: "12345678",
			wantErr:  nil,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Use index for unique email to avoid invalid chars from test name
			_, err := authService.Register(ctx, service.RegisterRequest{
				Email:    fmt.Sprintf("passtest_%d@test.local", i),
				Username: fmt.Sprintf("passtest_%d", i),
				Password: tt.password,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	// AC-AUTH-002: Register Duplicate Email
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	existingUser := f.CreateUser(t, fixtures.WithEmail("existing@test.local"))
	require.NotEmpty(t, existingUser.ID)

	_, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "existing@test.local",
		Username: "someoneelse",
		Password: "password123",
	})

	require.ErrorIs(t, err, service.ErrEmailAlreadyExists)
}

func TestAuth_RegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	// AC-AUTH-002 (variation): Email comparison should be case-insensitive
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	f.CreateUser(t, fixtures.WithEmail("mixedcase@test.local"))

	_, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "MixedCase@Test.Local",
		Username: "mixedcase2",
		Password: "password123",
	})

	require.ErrorIs(t, err, service.ErrEmailAlreadyExists)
}

func TestAuth_RegisterDuplicateUsername(t *testing.T) {
	// AC-AUTH-003: Register Duplicate Username
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	f.CreateUser(t, fixtures.WithUsername("takenname"))

	_, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "unique@test.local",
		Username: "takenname",
		Password: "password123",
	})

	require.ErrorIs(t, err, service.ErrUsernameExists)
}

func TestAuth_LoginWithValidCredentials(t *testing.T) {
	// AC-AUTH-004: Login with Valid Credentials
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	user := f.CreateUser(t,
		fixtures.WithEmail("login@test.local"),
		fixtures.WithPassword("correcthorse"),
	)

	result, err := authService.Login(ctx, service.LoginRequest{
		Email:    "login@test.local",
		Password: "correcthorse",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)

	claims, err := authService.ValidateAccessToken(result.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuth_LoginWithInvalidCredentials(t *testing.T) {
	// AC-AUTH-005: Login with Invalid Credentials
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	f.CreateUser(t,
		fixtures.WithEmail("victim@test.local"),
		fixtures.WithPassword("correcthorse"),
	)

	_, err := authService.Login(ctx, service.LoginRequest{
		Email:    "victim@test.local",
		Password: "wronghorse",
	})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// Unknown email yields the same error, not a not-found leak
	_, err = authService.Login(ctx, service.LoginRequest{
		Email:    "nobody@test.local",
		Password: "correcthorse",
	})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_RefreshTokenRotation(t *testing.T) {
	// AC-AUTH-006: Refresh Token
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "refresh@test.local",
		Username: "refresher",
		Password: "password123",
	})
	require.NoError(t, err)

	oldRefresh := result.TokenPair.RefreshToken

	newPair, err := authService.RefreshTokens(ctx, oldRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEmpty(t, newPair.RefreshToken)
	assert.NotEqual(t, oldRefresh, newPair.RefreshToken)

	// The old token must be rejected after rotation
	_, err = authService.RefreshTokens(ctx, oldRefresh)
	require.Error(t, err)
}

func TestAuth_RefreshWithInvalidToken(t *testing.T) {
	// AC-AUTH-006 (variation): Invalid refresh token is rejected
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	_, err := authService.RefreshTokens(ctx, "not-a-real-token")
	require.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestAuth_LogoutRevokesTokens(t *testing.T) {
	// AC-AUTH-007: Logout Revokes Tokens
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "logout@test.local",
		Username: "leaver",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, result.User.ID))

	_, err = authService.RefreshTokens(ctx, result.TokenPair.RefreshToken)
	require.Error(t, err)
}

func TestAuth_ChangePassword(t *testing.T) {
	// AC-AUTH-008: Change Password
	tdb := testdb.New(t)
	defer tdb.Close()

	authService := createAuthService(t, tdb)
	ctx := context.Background()

	result, err := authService.Register(ctx, service.RegisterRequest{
		Email:    "rotate@test.local",
		Username: "rotator",
		Password: "oldpassword1",
	})
	require.NoError(t, err)

	require.NoError(t, authService.ChangePassword(ctx, result.User.ID, "oldpassword1", "newpassword1"))

	// New password works
	_, err = authService.Login(ctx, service.LoginRequest{
		Email:    "rotate@test.local",
		Password: "newpassword1",
	})
	require.NoError(t, err)

	// Old password is rejected
	_, err = authService.Login(ctx, service.LoginRequest{
		Email:    "rotate@test.local",
		Password: "oldpassword1",
	})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_ChangePasswordWrongCurrent(t *testing.T) {
	// AC-AUTH-008 (variation): Wrong current password is rejected
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	authService := createAuthService(t, tdb)
	ctx := context.Background()

	user := f.CreateUser(t, fixtures.WithPassword("rightpassword"))

	err := authService.ChangePassword(ctx, user.ID, "wrongpassword", "newpassword1")
	require.ErrorIs(t, err, service.ErrWrongPassword)
}

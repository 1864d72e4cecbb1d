package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/repository"
	"github.com/spec-kit/job-tracker/internal/repository/mocks"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	token, exp, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(DefaultTokenTTL), exp, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "user-1", claims.Subject)
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	require.Error(t, err)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.ParseToken(token)
	require.Error(t, err)

	_, err = tm.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "secret1"))
	require.ErrorIs(t, ComparePassword(hash, "secret2"), ErrPasswordMismatch)

	err = ComparePassword("not-a-hash", "secret1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestHashPasswordCost(t *testing.T) {
	_, err := HashPassword("secret1", 2)
	require.Error(t, err)
	_, err = HashPassword("secret1", 32)
	require.Error(t, err)

	hash, err := HashPassword("secret1", 5)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 5, cost)

	require.NoError(t, ValidateCost(0))
	require.NoError(t, ValidateCost(bcrypt.MaxCost))
}

func newProtectedApp(users repository.UserRepository, tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(http.StatusUnauthorized).SendString(err.Error())
		},
	})
	mw := NewAuthMiddleware(tm, users)
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(principal.UserID())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	users := new(mocks.UserRepository)
	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)
	app := newProtectedApp(users, tm)

	good, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	ghost, _, err := tm.GenerateToken("ghost")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + good, http.StatusOK, "user-1"},
		{"missing", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized, "Token is not valid"},
		{"garbage", "Bearer abc", http.StatusUnauthorized, "Token is not valid"},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized, "Token is not valid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			require.Equal(t, tc.body, string(body))
		})
	}
}

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"lingua-bot/internal/dto"
	"lingua-bot/internal/middleware"
	"lingua-bot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ManualMockAuthService stubs service.AuthService for middleware tests.
type ManualMockAuthService struct {
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AdminClaims, error)
}

func (m *ManualMockAuthService) CreateJWT(subject string, ttl time.Duration) (string, error) {
	panic("not implemented in mock")
}

func (m *ManualMockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AdminClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	return nil, errors.New("ValidateJWTFunc not set on mock")
}

func TestProtected(t *testing.T) {
	tests := []struct {
		name            string
		authHeader      string
		validate        func(ctx context.Context, tokenString string) (*dto.AdminClaims, error)
		expectedStatus  int
		expectedCode    string
		expectedSubject string
	}{
		{
			name:           "No Auth Header",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "MISSING_AUTH_HEADER",
		},
		{
			name:           "Wrong Scheme",
			authHeader:     "Basic abc",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "INVALID_AUTH_SCHEME",
		},
		{
			name:           "Empty Token",
			authHeader:     "Bearer ",
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "EMPTY_TOKEN",
		},
		{
			name:       "Invalid Token",
			authHeader: "Bearer broken",
			validate: func(ctx context.Context, tokenString string) (*dto.AdminClaims, error) {
				return nil, service.ErrInvalidJWTToken
			},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   "INVALID_TOKEN",
		},
		{
			name:       "Wrong Role",
			authHeader: "Bearer viewer",
			validate: func(ctx context.Context, tokenString string) (*dto.AdminClaims, error) {
				return &dto.AdminClaims{Role: "viewer"}, nil
			},
			expectedStatus: fiber.StatusForbidden,
			expectedCode:   "INSUFFICIENT_ROLE",
		},
		{
			name:       "Valid Admin Token",
			authHeader: "Bearer good",
			validate: func(ctx context.Context, tokenString string) (*dto.AdminClaims, error) {
				assert.Equal(t, "good", tokenString)
				return &dto.AdminClaims{Role: service.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops"}}, nil
			},
			expectedStatus:  fiber.StatusOK,
			expectedSubject: "ops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin", middleware.Protected(&ManualMockAuthService{ValidateJWTFunc: tt.validate}), func(c *fiber.Ctx) error {
				subject, _ := c.Locals(middleware.SubjectKey).(string)
				return c.SendString(subject)
			})

			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedCode != "" {
				var body middleware.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedCode, body.Code)
			}
		})
	}
}

func TestProtected_WithRealTokens(t *testing.T) {
	authSvc, err := service.NewAuthService("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	token, err := authSvc.CreateJWT("ops", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin", middleware.Protected(authSvc), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.SubjectKey).(string))
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

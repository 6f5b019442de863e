package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

type stubJWTService struct {
	claims      *auth.Claims
	validateErr error
	gotToken    string
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	s.gotToken = token
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

func (s *stubJWTService) ValidateRefreshToken(_ context.Context, token string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

func newProtectedHandler(jwt auth.JWTService) (http.Handler, *uuid.UUID) {
	sessions := shared.NewSessionManager("taskdeck_session", time.Hour, false)
	authMiddleware := middleware.NewAuthMiddleware(jwt, sessions)

	var seenUserID uuid.UUID
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := middleware.GetUserID(r); ok {
			seenUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})

	return authMiddleware.Authenticate(inner), &seenUserID
}

func TestAuthenticate_BearerToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &stubJWTService{claims: &auth.Claims{UserID: userID, TokenType: "access"}}
	handler, seenUserID := newProtectedHandler(jwt)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "some-token", jwt.gotToken)
	assert.Equal(t, userID, *seenUserID)
}

func TestAuthenticate_SessionCookie(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwt := &stubJWTService{claims: &auth.Claims{UserID: userID, TokenType: "access"}}
	handler, seenUserID := newProtectedHandler(jwt)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "taskdeck_session", Value: "cookie-token"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "cookie-token", jwt.gotToken)
	assert.Equal(t, userID, *seenUserID)
}

func TestAuthenticate_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	t.Parallel()

	jwt := &stubJWTService{claims: &auth.Claims{UserID: uuid.New(), TokenType: "access"}}
	handler, _ := newProtectedHandler(jwt)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "taskdeck_session", Value: "cookie-token"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "header-token", jwt.gotToken)
}

func TestAuthenticate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(*http.Request)
		validateErr error
		wantStatus  int
	}{
		{
			name:       "no token at all",
			setup:      func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed authorization header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic abc123")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer stale")
			},
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
			},
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name: "refresh token used as access token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer refresh")
			},
			validateErr: auth.ErrWrongTokenType,
			wantStatus:  http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwt := &stubJWTService{validateErr: tc.validateErr}
			handler, _ := newProtectedHandler(jwt)

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			tc.setup(req)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetUserID(req)
	require.False(t, ok)
}

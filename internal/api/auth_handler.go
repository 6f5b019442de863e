package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/googleauth"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// GoogleVerifier resolves a Google access token to a verified profile.
// Defined here, at the point of consumption, so the handler can be tested
// against a fake without standing up the real Google client.
type GoogleVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*googleauth.Profile, error)
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userService    service.UserService
	jwtService     auth.JWTService
	googleVerifier GoogleVerifier
	sessions       *shared.SessionManager
	authConfig     *config.AuthConfig
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	googleVerifier GoogleVerifier,
	sessions *shared.SessionManager,
	authConfig *config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		userService:    userService,
		jwtService:     jwtService,
		googleVerifier: googleVerifier,
		sessions:       sessions,
		authConfig:     authConfig,
		validator:      validator.New(),
		logger:         log.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles user registration requests.
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	user, err := h.userService.SignUp(r.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GoogleID:  req.ExternalID,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, user, http.StatusCreated, "user signed up successfully")
}

// Login handles user authentication requests.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, user, http.StatusOK, "user logged in successfully")
}

// GoogleAuth handles sign-in with a Google access token.
// POST /api/auth/google
//
// The token is verified against Google before any account decision is made;
// the service layer then creates or links the account as needed.
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var req GoogleAuthRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	profile, err := h.googleVerifier.VerifyAccessToken(r.Context(), req.AccessToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.userService.AuthenticateExternal(r.Context(), service.ExternalProfile{
		Subject:       profile.Subject,
		Email:         profile.Email,
		EmailVerified: profile.EmailVerified,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, user, http.StatusOK, "user logged in successfully")
}

// RefreshToken handles token refresh requests, issuing a new token pair in
// exchange for a valid refresh token.
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	token, refreshToken, expiresAt, err := h.generateTokenPair(r, claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.sessions.Set(w, token)

	shared.RespondWithSuccess(w, r, http.StatusOK, "token refreshed successfully", AuthData{
		ID:           claims.UserID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// Logout clears the caller's session cookie.
// POST /api/auth/logout
//
// Tokens are stateless, so logout does not revoke them; it only ends the
// cookie session. Logging out without a session is still a success.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	shared.RespondWithSuccess(w, r, http.StatusOK, "user logged out successfully", nil)
}

// respondWithTokens issues a token pair for the user, sets the session
// cookie, and writes the auth response.
func (h *AuthHandler) respondWithTokens(
	w http.ResponseWriter,
	r *http.Request,
	user *domain.User,
	status int,
	message string,
) {
	token, refreshToken, expiresAt, err := h.generateTokenPair(r, user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.sessions.Set(w, token)

	shared.RespondWithSuccess(w, r, status, message, AuthData{
		ID:           user.ID,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
}

// generateTokenPair creates an access and refresh token for the user and
// returns them together with the access token's expiry, derived from the
// configured token lifetime.
func (h *AuthHandler) generateTokenPair(r *http.Request, userID uuid.UUID) (string, string, string, error) {
	token, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	expiresAt := time.Now().UTC().Add(lifetime).Format(time.RFC3339)

	return token, refreshToken, expiresAt, nil
}

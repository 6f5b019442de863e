package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// SignUpInput carries the fields accepted at signup. Password and GoogleID
// are both optional, but at least one must be present.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	GoogleID  string
}

// ExternalProfile is a verified external identity as seen by the service
// layer. It must already be validated at the boundary; in particular,
// EmailVerified reflects the provider's email-ownership assertion.
type ExternalProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}

// UserService provides signup and authentication operations.
type UserService interface {
	// SignUp registers a new user. The password, when present, is hashed
	// before storage.
	// Returns ErrPasswordRequired if neither a password nor an external
	// identity is supplied, and store.ErrEmailExists on a duplicate email.
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)

	// Authenticate checks an email/password pair against the stored hash.
	// Returns ErrInvalidCredentials on any failure: unknown email, account
	// without a password hash, missing password, or mismatch.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// AuthenticateExternal resolves a verified external profile to a user:
	// finds the user by email, creates one bound to the external id if
	// absent, or links the id to an existing unlinked account without
	// touching its other fields.
	// Returns ErrExternalIdentityUnverified if the provider did not verify
	// the profile's email.
	AuthenticateExternal(ctx context.Context, profile ExternalProfile) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *UserServiceImpl {
	if log == nil {
		log = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		logger:    log.With(slog.String("component", "user_service")),
	}
}

// SignUp implements UserService.SignUp
func (s *UserServiceImpl) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Password == "" && input.GoogleID == "" {
		return nil, ErrPasswordRequired
	}

	var user *domain.User
	var err error
	if input.Password != "" {
		user, err = domain.NewUser(input.Email, input.Password, input.FirstName, input.LastName)
	} else {
		user, err = domain.NewExternalUser(input.Email, input.GoogleID, input.FirstName, input.LastName)
	}
	if err != nil {
		log.Debug("signup validation failed", "error", err)
		return nil, err
	}

	if input.Password != "" {
		hashed, err := s.hasher.Hash(input.Password)
		if err != nil {
			log.Error("failed to hash password", "error", err)
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
		// Plaintext is no longer needed once the hash exists.
		user.Password = ""
		user.GoogleID = input.GoogleID
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to sign up with existing email")
		} else {
			log.Error("failed to save user", "error", err)
		}
		return nil, err
	}

	log.Info("user signed up successfully", "user_id", user.ID)
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	// External-identity-only accounts have no hash to compare against.
	if user.HashedPassword == "" || password == "" {
		log.Debug("login attempt without usable password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	log.Info("user authenticated successfully", "user_id", user.ID)
	return user, nil
}

// AuthenticateExternal implements UserService.AuthenticateExternal
func (s *UserServiceImpl) AuthenticateExternal(ctx context.Context, profile ExternalProfile) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if profile.Subject == "" || profile.Email == "" || !profile.EmailVerified {
		log.Debug("rejected unverified external profile")
		return nil, ErrExternalIdentityUnverified
	}

	user, err := s.userStore.GetByEmail(ctx, profile.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to get user by email", "error", err)
			return nil, fmt.Errorf("failed to retrieve user: %w", err)
		}

		// First sign-in through the provider: create an account bound to
		// the external id.
		user, err = domain.NewExternalUser(profile.Email, profile.Subject, profile.FirstName, profile.LastName)
		if err != nil {
			log.Debug("external profile validation failed", "error", err)
			return nil, err
		}

		if err := s.userStore.Create(ctx, user); err != nil {
			log.Error("failed to create external user", "error", err)
			return nil, err
		}

		log.Info("external user created successfully", "user_id", user.ID)
		return user, nil
	}

	// Existing local account without a linked identity: attach the external
	// id, leaving every other field untouched.
	if user.GoogleID == "" {
		if err := user.LinkGoogleID(profile.Subject); err != nil {
			return nil, err
		}

		if err := s.userStore.Update(ctx, user); err != nil {
			log.Error("failed to link external identity", "error", err, "user_id", user.ID)
			return nil, err
		}

		log.Info("external identity linked successfully", "user_id", user.ID)
	}

	return user, nil
}

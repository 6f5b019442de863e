package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")

	// ErrNoCredentials is returned when a user has neither a password hash
	// nor a linked Google identity. Such an account could never log in.
	ErrNoCredentials = errors.New("user must have a password or a linked external identity")
)

// User represents a registered user of the TaskDeck application.
// A user authenticates either with a bcrypt-hashed password, a linked
// Google identity, or both.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, only populated transiently during signup
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	GoogleID       string    `json:"-"` // External identity id; empty when no Google account is linked
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new local User with the given email and plaintext password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// The caller is responsible for hashing the password before storing the user.
// Returns an error if validation fails.
func NewUser(email, password, firstName, lastName string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NewExternalUser creates a new User bound to a Google identity.
// Such users have no password; their only credential is the external id.
// Returns an error if validation fails.
func NewExternalUser(email, googleID, firstName, lastName string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		GoogleID:  googleID,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// LinkGoogleID attaches an external identity to an existing user without
// touching any other field. It is a no-op error if the id is empty.
func (u *User) LinkGoogleID(googleID string) error {
	if googleID == "" {
		return NewValidationError("google_id", "cannot be empty", ErrValidation)
	}
	u.GoogleID = googleID
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
		return nil
	}

	// Without a transient plaintext password the user needs at least one
	// stored credential to ever authenticate.
	if u.HashedPassword == "" && u.GoogleID == "" {
		return ErrNoCredentials
	}

	return nil
}

// validEmailFormat performs basic structural validation of an email address:
// a non-empty local part, an @, and a domain containing an interior dot.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}

	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

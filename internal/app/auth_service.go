// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"

	"claimportal/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest hashing cost the service accepts.
const MinBcryptCost = 10

var (
	// ErrCredentialsRequired is returned when Aadharid or password is empty.
	ErrCredentialsRequired = &domain.Error{Kind: domain.ErrInvalidInput, Msg: "Aadharid and password are required"}
	// ErrUserNotFound indicates that no identity has the given Aadharid.
	ErrUserNotFound = &domain.Error{Kind: domain.ErrNotFound, Msg: "User not found"}
	// ErrInvalidUserData indicates an identity without a password hash.
	ErrInvalidUserData = &domain.Error{Kind: domain.ErrInvalidState, Msg: "Invalid user data"}
	// ErrIncorrectPassword indicates a password that does not match the stored hash.
	ErrIncorrectPassword = &domain.Error{Kind: domain.ErrUnauthorized, Msg: "Incorrect password"}
	// ErrInvalidToken covers malformed, tampered and expired session tokens.
	ErrInvalidToken = &domain.Error{Kind: domain.ErrUnauthorized, Msg: "Invalid or expired token"}
	// ErrSubjectRequired is returned when single sign-on yields no identifier.
	ErrSubjectRequired = &domain.Error{Kind: domain.ErrInvalidInput, Msg: "external identity has no subject"}
)

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	identities domain.IdentityRepository
	tokens     domain.TokenIssuer
	cost       int
}

// NewAuthService creates a new authentication service. Costs below
// MinBcryptCost are raised to it.
func NewAuthService(identities domain.IdentityRepository, tokens domain.TokenIssuer, cost int) *AuthService {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	return &AuthService{
		identities: identities,
		tokens:     tokens,
		cost:       cost,
	}
}

// Register hashes password and stores a new identity. A duplicate Aadharid
// surfaces as a store error like any other insert failure.
func (s *AuthService) Register(ctx context.Context, aadharid, password string) error {
	if aadharid == "" || password == "" {
		return ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return &domain.InternalError{Err: err}
	}

	if _, err := s.identities.Create(ctx, aadharid, string(hash)); err != nil {
		return domain.NewStoreError(err)
	}
	return nil
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, aadharid, password string) (Session, error) {
	if aadharid == "" || password == "" {
		return Session{}, ErrCredentialsRequired
	}

	identity, err := s.identities.GetByAadharid(ctx, aadharid)
	if err != nil {
		return Session{}, domain.NewStoreError(err)
	}
	if identity == nil {
		return Session{}, ErrUserNotFound
	}
	if identity.PasswordHash == "" {
		return Session{}, ErrInvalidUserData
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, ErrIncorrectPassword
		}
		// A hash that bcrypt cannot parse is corrupt stored data.
		return Session{}, ErrInvalidUserData
	}

	return s.issue(identity.ID)
}

// ExternalPrefix namespaces single sign-on identities so they never share an
// Aadharid with a password identity.
const ExternalPrefix = "sso:"

// LoginExternal signs in an identity vouched for by a single sign-on
// provider, creating it without a password hash on first use. The stored
// Aadharid is ExternalPrefix followed by subject.
func (s *AuthService) LoginExternal(ctx context.Context, subject string) (Session, error) {
	if subject == "" {
		return Session{}, ErrSubjectRequired
	}
	aadharid := ExternalPrefix + subject

	identity, err := s.identities.GetByAadharid(ctx, aadharid)
	if err != nil {
		return Session{}, domain.NewStoreError(err)
	}
	if identity == nil {
		var createErr error
		identity, createErr = s.identities.Create(ctx, aadharid, "")
		if createErr != nil {
			// Lost a race with a concurrent first login for the same subject.
			identity, err = s.identities.GetByAadharid(ctx, aadharid)
			if err != nil {
				return Session{}, domain.NewStoreError(err)
			}
			if identity == nil {
				return Session{}, domain.NewStoreError(createErr)
			}
		}
	}

	return s.issue(identity.ID)
}

// Authenticate verifies a session token and returns the user id it binds.
func (s *AuthService) Authenticate(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *AuthService) issue(userID int64) (Session, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return Session{}, &domain.InternalError{Err: err}
	}
	return Session{Token: token, UserID: userID}, nil
}

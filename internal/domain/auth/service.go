// Task 8.3: AuthService — Register and Login business logic
// Handles account creation, password hashing, and JWT issuance.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/srilakshmipotnuru/mindsdb/pkg/auth"
	"github.com/srilakshmipotnuru/mindsdb/pkg/uuid"
)

// ErrInvalidCredentials is returned by Login when email or password is incorrect.
// Using a single error for both cases avoids leaking whether an email exists (security).
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailAlreadyExists is returned by Register when the email is already taken.
var ErrEmailAlreadyExists = errors.New("email already registered")

// RegisterInput holds the data needed to create a new service account.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned after successful Register or Login.
// Token is a signed JWT containing the AccountID claim.
//
//nolint:revive // API de dominio estable; renombrar rompe referencias amplias
type AuthResult struct {
	Token     string
	AccountID string
}

// AuthService defines the authentication business operations.
//
//nolint:revive // interfaz pública estable en el módulo auth
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

// authService is the concrete implementation backed by SQLite.
type authService struct {
	db *sql.DB
}

// NewAuthService creates a new AuthService backed by the provided DB.
func NewAuthService(db *sql.DB) AuthService {
	return &authService{db: db}
}

// Register creates a new account and returns a JWT.
// Password is hashed with bcrypt before storage; plaintext is never stored.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	accountID := uuid.NewV7().String()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, accountID, input.Email, hash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := pkgauth.GenerateJWT(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &AuthResult{Token: token, AccountID: accountID}, nil
}

// Login verifies credentials and returns a JWT.
// Always returns ErrInvalidCredentials for any failure (email not found OR
// wrong password) to avoid revealing whether the email exists (security).
func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var accountID string
	var passwordHash sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM account
		WHERE email = ?
		LIMIT 1
	`, input.Email).Scan(&accountID, &passwordHash)
	if err != nil {
		// Whether the account doesn't exist or there's a DB error, return generic message
		return nil, ErrInvalidCredentials
	}

	if !passwordHash.Valid || passwordHash.String == "" {
		return nil, ErrInvalidCredentials
	}

	// Verify password (constant-time comparison via bcrypt)
	if !pkgauth.VerifyPassword(passwordHash.String, input.Password) {
		return nil, ErrInvalidCredentials
	}

	// Credentials valid — issue JWT
	token, err := pkgauth.GenerateJWT(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &AuthResult{Token: token, AccountID: accountID}, nil
}

// isUniqueViolation checks if an SQLite error is a UNIQUE constraint violation.
// SQLite surfaces this as an error message containing "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"identity/internal/domain/service"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Field limits mirror the column widths of the accounts table.
type RegisterInput struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's basic information.
// The password hash never leaves the usecase layer.
type RegisterOutput struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// LoginOutput returns the signed bearer token after a successful login.
type LoginOutput struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IdentityOutput describes the authenticated caller as asserted by its token.
type IdentityOutput struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new active account from the given input.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the credentials and issues a signed bearer token.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// DeleteAccount soft-deletes the account identified by userID. It
	// reports false when no active account matched.
	DeleteAccount(ctx context.Context, userID uint) (bool, error)

	// CurrentIdentity resolves validated token claims into the caller's
	// identity without touching the store.
	CurrentIdentity(ctx context.Context, claims *service.Claims) (*IdentityOutput, error)
}

// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizeEmail lowercases the address so lookups and the unique index
// agree on a single canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register orchestrates the complete account registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	// Pre-check for a friendly error. The partial unique index remains the
	// final arbiter when two registrations race.
	_, err := srv.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		srv.log(ctx).Warn("Registration rejected, email already in use", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrDuplicateEmail, "registration failed")
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, errors.Wrap(err, "failed to check email availability")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := srv.accountRepo.Create(ctx, newAccount); err != nil {
		// A concurrent registration won the index race.
		if errors.Is(err, repository.ErrEmailTaken) {
			srv.log(ctx).Warn("Registration lost duplicate race", slog.String("email", email))

			return nil, errors.Wrap(domainerrors.ErrDuplicateEmail, "registration failed")
		}
		srv.log(ctx).Error("Failed to create account", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create account during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newAccount.ID))

	return &usecase.RegisterOutput{
		UserID: newAccount.ID,
		Name:   newAccount.Name,
		Email:  newAccount.Email,
	}, nil
}

// Login verifies the submitted credentials and issues a signed bearer token.
// Unknown email and wrong password take the same exit so the response never
// reveals which half of the credential pair failed.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		srv.log(ctx).Error("Failed to load account for login", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	// bcrypt is CPU-bound; check once, outside any store interaction.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	token, expiresAt, err := srv.tokenService.Issue(account)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("userID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", account.ID))

	return &usecase.LoginOutput{
		Token:     token,
		UserID:    account.ID,
		Name:      account.Name,
		Email:     account.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// DeleteAccount soft-deletes the caller's account. Repeating the call after a
// successful delete reports false instead of failing.
func (srv *authService) DeleteAccount(ctx context.Context, userID uint) (bool, error) {
	srv.log(ctx).Info("Attempting account deletion", slog.Any("userID", userID))

	deleted, err := srv.accountRepo.SoftDelete(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to soft delete account", slog.Any("userID", userID), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to soft delete account")
	}

	if !deleted {
		srv.log(ctx).Warn("No active account to delete", slog.Any("userID", userID))
	} else {
		srv.log(ctx).Info("Account deactivated", slog.Any("userID", userID))
	}

	return deleted, nil
}

// CurrentIdentity resolves validated token claims into the caller's identity.
// The token is self-contained, so no store round-trip happens here.
func (srv *authService) CurrentIdentity(_ context.Context, claims *service.Claims) (*usecase.IdentityOutput, error) {
	if claims == nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "missing token claims")
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || userID == 0 {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "malformed user id in token")
	}

	if claims.Email == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "missing email in token")
	}

	return &usecase.IdentityOutput{
		UserID: uint(userID),
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}

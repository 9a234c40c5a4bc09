package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	mockRepo "identity/internal/mocks/repository"
	mockService "identity/internal/mocks/service"
	"identity/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceFixture struct {
	service      usecase.AuthUsecase
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockService.MockPasswordHasher
	tokenService *mockService.MockTokenService
}

func createTestAuthService(t *testing.T) *authServiceFixture {
	t.Helper()

	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenService := mockService.NewMockTokenService(t)

	svc := NewAuthService(AuthServiceParams{
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &authServiceFixture{
		service:      svc,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret123").Return("hashed-secret", nil)
	fx.accountRepo.EXPECT().Create(ctx, &entity.Account{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-secret",
		IsActive:     true,
	}).RunAndReturn(func(_ context.Context, account *entity.Account) error {
		account.ID = 1

		return nil
	})

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), output.UserID)
	assert.Equal(t, "Alice", output.Name)
	assert.Equal(t, "alice@example.com", output.Email)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret123").Return("hashed-secret", nil)
	fx.accountRepo.EXPECT().Create(ctx, &entity.Account{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-secret",
		IsActive:     true,
	}).Return(nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:            "Alice",
		Email:           "  Alice@Example.COM ",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", output.Email)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	existing := &entity.Account{ID: 7, Email: "bob@example.com", IsActive: true}
	fx.accountRepo.EXPECT().FindByEmail(ctx, "bob@example.com").Return(existing, nil)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:            "Bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestAuthService_Register_DuplicateRace(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	// The pre-check sees no account, but a concurrent registration wins the
	// unique index race during Create.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "bob@example.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret123").Return("hashed-secret", nil)
	fx.accountRepo.EXPECT().Create(ctx, &entity.Account{
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: "hashed-secret",
		IsActive:     true,
	}).Return(repository.ErrEmailTaken)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:            "Bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "carol@example.com").Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().Hash("secret123").Return("", errors.New("cost out of range"))

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:            "Carol",
		Email:           "carol@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	account := &entity.Account{
		ID:           42,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-secret",
		IsActive:     true,
	}
	expiresAt := time.Now().Add(24 * time.Hour)

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("secret123", "hashed-secret").Return(true)
	fx.tokenService.EXPECT().Issue(account).Return("signed-token", expiresAt, nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "Alice@Example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
	assert.Equal(t, uint(42), output.UserID)
	assert.Equal(t, "alice@example.com", output.Email)
	assert.Equal(t, expiresAt, output.ExpiresAt)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	account := &entity.Account{
		ID:           42,
		Email:        "alice@example.com",
		PasswordHash: "hashed-secret",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("wrong", "hashed-secret").Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

// The login failure surface must not reveal which half of the credential pair
// was wrong, or it becomes an account enumeration oracle.
func TestAuthService_Login_FailureIndistinguishable(t *testing.T) {
	ctx := context.Background()

	fxUnknown := createTestAuthService(t)
	fxUnknown.accountRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)
	_, unknownErr := fxUnknown.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "pw"})

	fxWrongPw := createTestAuthService(t)
	account := &entity.Account{ID: 1, Email: "alice@example.com", PasswordHash: "hashed", IsActive: true}
	fxWrongPw.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(account, nil)
	fxWrongPw.hasher.EXPECT().Check("pw", "hashed").Return(false)
	_, wrongPwErr := fxWrongPw.service.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "pw"})

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.Equal(t, unknownErr.Error(), wrongPwErr.Error())

	var unknownApp domainerrors.AppError
	var wrongPwApp domainerrors.AppError
	require.True(t, errors.As(unknownErr, &unknownApp))
	require.True(t, errors.As(wrongPwErr, &wrongPwApp))
	assert.Equal(t, unknownApp.Message(), wrongPwApp.Message())
	assert.Equal(t, unknownApp.ErrorCode(), wrongPwApp.ErrorCode())
	assert.Equal(t, unknownApp.HTTPCode(), wrongPwApp.HTTPCode())
}

func TestAuthService_Login_TokenIssueFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	account := &entity.Account{ID: 42, Email: "alice@example.com", PasswordHash: "hashed-secret", IsActive: true}

	fx.accountRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(account, nil)
	fx.hasher.EXPECT().Check("secret123", "hashed-secret").Return(true)
	fx.tokenService.EXPECT().Issue(account).Return("", time.Time{}, errors.New("signing failed"))

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.Nil(t, output)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to issue token")
}

func TestAuthService_DeleteAccount_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().SoftDelete(ctx, uint(42)).Return(true, nil)

	deleted, err := fx.service.DeleteAccount(ctx, 42)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestAuthService_DeleteAccount_AlreadyDeleted(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	// A second delete of the same account finds no active row and reports
	// false without erroring.
	fx.accountRepo.EXPECT().SoftDelete(ctx, uint(42)).Return(false, nil)

	deleted, err := fx.service.DeleteAccount(ctx, 42)

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestAuthService_DeleteAccount_StoreError(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.accountRepo.EXPECT().SoftDelete(ctx, uint(42)).Return(false, errors.New("connection reset"))

	deleted, err := fx.service.DeleteAccount(ctx, 42)

	assert.False(t, deleted)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to soft delete account")
}

func TestAuthService_CurrentIdentity_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	output, err := fx.service.CurrentIdentity(ctx, &service.Claims{
		UserID: "42",
		Email:  "alice@example.com",
		Name:   "Alice",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), output.UserID)
	assert.Equal(t, "alice@example.com", output.Email)
	assert.Equal(t, "Alice", output.Name)
}

// Full account lifecycle: register, login, delete, then the freed email can
// be registered again while a repeated delete stays a no-op.
func TestAuthService_AccountLifecycle(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	active := &entity.Account{
		ID:           1,
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash-1",
		IsActive:     true,
	}

	// Register while the email is free.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "ana@example.com").Return(nil, repository.ErrAccountNotFound).Once()
	fx.hasher.EXPECT().Hash("password1").Return("hash-1", nil).Once()
	fx.accountRepo.EXPECT().Create(ctx, &entity.Account{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash-1",
		IsActive:     true,
	}).RunAndReturn(func(_ context.Context, account *entity.Account) error {
		account.ID = 1

		return nil
	}).Once()

	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "password1", ConfirmPassword: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), registered.UserID)

	// Login against the active account.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "ana@example.com").Return(active, nil).Once()
	fx.hasher.EXPECT().Check("password1", "hash-1").Return(true).Once()
	fx.tokenService.EXPECT().Issue(active).Return("token-1", time.Now().Add(24*time.Hour), nil).Once()

	loggedIn, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", loggedIn.Token)

	// Delete once, then again: first true, second false, neither errors.
	fx.accountRepo.EXPECT().SoftDelete(ctx, uint(1)).Return(true, nil).Once()
	fx.accountRepo.EXPECT().SoftDelete(ctx, uint(1)).Return(false, nil).Once()

	deleted, err := fx.service.DeleteAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = fx.service.DeleteAccount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, deleted)

	// Login now fails the same way an unknown account does.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "ana@example.com").Return(nil, repository.ErrAccountNotFound).Once()
	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "password1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	// The soft delete freed the email for a fresh registration.
	fx.accountRepo.EXPECT().FindByEmail(ctx, "ana@example.com").Return(nil, repository.ErrAccountNotFound).Once()
	fx.hasher.EXPECT().Hash("password2").Return("hash-2", nil).Once()
	fx.accountRepo.EXPECT().Create(ctx, &entity.Account{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash-2",
		IsActive:     true,
	}).RunAndReturn(func(_ context.Context, account *entity.Account) error {
		account.ID = 2

		return nil
	}).Once()

	reRegistered, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "password2", ConfirmPassword: "password2",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), reRegistered.UserID)
}

func TestAuthService_CurrentIdentity_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		claims *service.Claims
	}{
		{name: "nil claims", claims: nil},
		{name: "malformed user id", claims: &service.Claims{UserID: "abc", Email: "a@b.com"}},
		{name: "zero user id", claims: &service.Claims{UserID: "0", Email: "a@b.com"}},
		{name: "missing email", claims: &service.Claims{UserID: "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)

			output, err := fx.service.CurrentIdentity(context.Background(), tt.claims)

			assert.Nil(t, output)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
		})
	}
}

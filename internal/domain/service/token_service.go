package service

import (
	"time"

	"identity/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by session tokens. UserID is the
// account ID stringified for transit; consumers parse it back to an integer.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session
// tokens. Tokens are stateless: nothing is persisted server-side, validity
// is determined purely by signature and expiry.
type TokenService interface {
	// Issue creates a signed token for the account with a fixed lifetime
	// and returns it together with its expiry time.
	Issue(account *entity.Account) (token string, expiresAt time.Time, err error)

	// Validate checks the signature and expiry of a token string and
	// returns its claims. Claims are trusted as-is once validation passes.
	Validate(tokenString string) (*Claims, error)

	// Expiry returns the would-be expiry of a token issued now. It lets
	// callers report expiresAt without re-deriving it from a token.
	Expiry() time.Time
}

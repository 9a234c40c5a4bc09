// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/domain/service"
)

// defaultTokenTTL is used when no lifetime is configured.
const defaultTokenTTL = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// The signing secret and lifetime are fixed at construction; there is no runtime rotation.
type jwtService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.Auth == nil || cfg.Auth.TokenSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.Auth.TokenTTL
	if ttl == 0 {
		ttl = defaultTokenTTL
	}

	return &jwtService{
		secret: []byte(cfg.Auth.TokenSecret),
		ttl:    ttl,
	}, nil
}

// Issue creates a signed session token carrying the account's identity claims.
func (s *jwtService) Issue(account *entity.Account) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	userID := strconv.FormatUint(uint64(account.ID), 10)
	claims := &service.Claims{
		UserID: userID,
		Email:  account.Email,
		Name:   account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign token")
	}

	return signed, expiresAt, nil
}

// Validate checks the signature and expiry of a token string.
// Expired tokens fail here; jwt.ParseWithClaims verifies the exp claim.
func (s *jwtService) Validate(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}

// Expiry returns the expiry a token issued now would carry.
func (s *jwtService) Expiry() time.Time {
	return time.Now().Add(s.ttl)
}

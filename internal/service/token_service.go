package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/utils"
)

// TokenClaims is the payload of a session token. Role is empty on tokens issued
// before roles existed; those resolve to admin.
type TokenClaims struct {
	ID       string `json:"id"`
	Role     string `json:"type,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying session tokens
type TokenService interface {
	Issue(account models.Account) (string, error)
	Parse(token string) (*TokenClaims, error)
}

// tokenService implements TokenService with HS256
type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new instance of TokenService
func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the account. The password hash is never part of the payload.
func (s *tokenService) Issue(account models.Account) (string, error) {
	identity := account.Identity()
	now := s.now()

	claims := TokenClaims{
		ID:       identity.ID,
		Role:     string(identity.Role),
		Email:    identity.Email,
		Username: identity.Username,
		Name:     identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", utils.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry. Every failure is Forbidden.
func (s *tokenService) Parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, &utils.AppError{Kind: utils.KindForbidden, Message: "Token has expired", Err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, &utils.AppError{Kind: utils.KindForbidden, Message: "Invalid token", Err: err}
		default:
			return nil, &utils.AppError{Kind: utils.KindForbidden, Message: "Token is not valid or has expired", Err: err}
		}
	}

	if claims.ID == "" {
		claims.ID = claims.Subject
	}
	if claims.ID == "" {
		return nil, utils.Forbidden("Invalid token")
	}

	return claims, nil
}

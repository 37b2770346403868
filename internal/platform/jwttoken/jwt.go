// Package jwttoken issues and validates the HS256 bearer tokens that guard
// the /v1 API. Tokens carry the advisor or integration as subject and an
// optional free-form scope.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "degreeaudit/pkg/domain-errors"
)

// Claims are the registered claims plus the caller's scope.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens for one issuer/audience pair.
type Service struct {
	key      []byte
	issuer   string
	audience string
	parser   *jwt.Parser
	now      func() time.Time
}

func NewService(signingKey, issuer, audience string) *Service {
	s := &Service{
		key:      []byte(signingKey),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// IssueToken signs a token for subject that expires after ttl.
func (s *Service) IssueToken(subject, scope string, ttl time.Duration) (string, error) {
	issued := s.now()
	claims := Claims{Scope: scope}
	claims.Subject = subject
	claims.Issuer = s.issuer
	claims.Audience = jwt.ClaimStrings{s.audience}
	claims.IssuedAt = jwt.NewNumericDate(issued)
	claims.ExpiresAt = jwt.NewNumericDate(issued.Add(ttl))
	claims.ID = uuid.NewString()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.key)
}

// ValidateToken verifies signature, issuer, audience and expiry. Every
// failure is an unauthorized dErrors value; expiry is reported separately so
// clients know to refresh.
func (s *Service) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	case claims.Subject == "":
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

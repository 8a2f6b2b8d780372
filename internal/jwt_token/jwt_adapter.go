package jwttoken

import (
	"together/pkg/domain"
	dErrors "together/pkg/domain-errors"
	authmw "together/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims maps token claims onto what the auth middleware needs.
func ToMiddlewareClaims(claims *Claims) (*authmw.JWTClaims, error) {
	identity, err := domain.ParseIdentity(claims.Identity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid identity claim")
	}
	return &authmw.JWTClaims{
		Identity: identity,
		JTI:      claims.ID,
	}, nil
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims)
}

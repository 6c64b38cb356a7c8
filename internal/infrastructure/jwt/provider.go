package jwtinfra

import (
	"errors"
	"time"

	"github.com/adgate/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload for the admin surface.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs guarding the admin endpoints.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("admin jwt secret not configured")
	}
	return &Provider{
		secret: []byte(cfg.AdminJWTSecret),
		expiry: time.Duration(cfg.JWTExpiryHours) * time.Hour,
	}, nil
}

func (p *Provider) Sign(scope string) (string, error) {
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{
		priv:     priv,
		issuer:   issuer,
		audience: audience,
		kid:      kid,
		Ttl:      ttl,
	}
}

// Generate creates a new JWT token with the given parameters
func (g *Generator) Generate(accountID int64, role, purpose string, isTemp bool) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	jti := ulid.Make().String()
	expiresIn := g.Ttl

	// Override TTL for temporary tokens
	if isTemp {
		expiresIn = 30 * time.Minute
	}

	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		IsTemp:    isTemp,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   fmt.Sprintf("%d", accountID),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}

// GenerateAccessToken generates a standard access token
func (g *Generator) GenerateAccessToken(accountID int64, role string) (string, string, error) {
	return g.Generate(accountID, role, "access", false)
}

// GenerateRefreshToken generates a refresh token (longer TTL)
func (g *Generator) GenerateRefreshToken(accountID int64) (string, string, error) {
	refreshGenerator := &Generator{
		priv:     g.priv,
		issuer:   g.issuer,
		audience: g.audience,
		kid:      g.kid,
		Ttl:      60 * 24 * time.Hour,
	}
	return refreshGenerator.Generate(accountID, "", "refresh", false)
}

// GenerateEmailVerificationToken generates a token for email verification
func (g *Generator) GenerateEmailVerificationToken(accountID int64) (string, string, error) {
	return g.Generate(accountID, "", "email_verification", true)
}

// GeneratePasswordResetToken generates a token for resetting a forgotten password
func (g *Generator) GeneratePasswordResetToken(accountID int64) (string, string, error) {
	return g.Generate(accountID, "", "password_reset", true)
}

// Package appauth issues and validates the bearer tokens that requesting
// applications present on the proof surface. A token binds an application
// identity to a holder wallet; the proof handler refuses requests whose appId
// does not match the token.
package appauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
)

// AppClaims are the JWT claims carried by an application token.
type AppClaims struct {
	AppID  string `json:"app_id"`
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// TokenService signs and validates application tokens with a shared key.
type TokenService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

// NewTokenService creates a TokenService. A zero TTL defaults to one hour.
func NewTokenService(signingKey string, issuer string, tokenTTL time.Duration) *TokenService {
	if tokenTTL == 0 {
		tokenTTL = time.Hour
	}
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

// Generate issues a token for the application acting on behalf of a wallet.
func (s *TokenService) Generate(appID domain.AppID, wallet domain.WalletAddress) (string, error) {
	if appID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "app id cannot be empty")
	}
	now := time.Now()
	claims := AppClaims{
		AppID:  appID.String(),
		Wallet: wallet.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   wallet.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*AppClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}
	claims, ok := parsed.Claims.(*AppClaims)
	if !ok || claims.AppID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing app identity")
	}
	return claims, nil
}

package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every merchant token.
const Issuer = "storefront"

// ErrMissingSubject is returned for tokens that name no merchant.
var ErrMissingSubject = errors.New("token has no subject")

// TokenService signs and verifies merchant access tokens
type TokenService struct {
	signingKey []byte
	algorithm  jwt.SigningMethod
	config     *Config
	mu         sync.RWMutex
}

// Config defines TokenService configuration
type Config struct {
	TTL time.Duration    // Default: 30 days
	Now func() time.Time // Default: time.Now
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TTL: 30 * 24 * time.Hour,
		Now: time.Now,
	}
}

// MerchantToken is the JWT payload; the subject is the merchant user ID.
type MerchantToken struct {
	jwt.RegisteredClaims
}

// UserID returns the merchant the token was issued to.
func (t *MerchantToken) UserID() string {
	return t.Subject
}

// NewTokenService creates a TokenService signing with secret. An empty
// secret generates a random key, so tokens only survive until restart.
func NewTokenService(secret []byte, config *Config) (*TokenService, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	key := secret
	if len(key) == 0 {
		key = make([]byte, 32) // 256-bit key for HS256
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}

	return &TokenService{
		signingKey: key,
		algorithm:  jwt.SigningMethodHS256, // Always HS256 to prevent algorithm confusion
		config:     config,
	}, nil
}

// GenerateToken creates a token for userID
func (ts *TokenService) GenerateToken(userID string) (string, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	if userID == "" {
		return "", ErrMissingSubject
	}

	now := ts.config.Now()
	claims := &MerchantToken{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(ts.algorithm, claims)
	tokenString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates a token and returns its claims
func (ts *TokenService) VerifyToken(tokenString string) (*MerchantToken, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	token, err := jwt.ParseWithClaims(tokenString, &MerchantToken{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure signing method is correct (prevents algorithm confusion attacks)
		if token.Method != ts.algorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.signingKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.config.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*MerchantToken)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}

// GetConfig returns the current configuration
func (ts *TokenService) GetConfig() *Config {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	// Return copy to prevent external modification
	return &Config{
		TTL: ts.config.TTL,
		Now: ts.config.Now,
	}
}

package live

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/livefir/storefront/internal/metrics"
	"github.com/livefir/storefront/internal/token"
)

// ErrUnauthenticated is returned by Identify when a request carries no usable credentials.
var ErrUnauthenticated = errors.New("authentication required")

const (
	// GroupCookie holds the browser session group of anonymous shoppers.
	GroupCookie = "storefront-id"
	// TokenCookie holds the merchant token once the panel has been opened with it.
	TokenCookie = "storefront-token"
)

// Authenticator identifies users and maps them to session groups.
//
// All connections with the same groupID share page state; the cart of a
// shopper is shared between the tabs of one browser and isolated from
// every other browser.
type Authenticator interface {
	// Identify returns the user ID from the request, "" for anonymous users.
	Identify(r *http.Request) (userID string, err error)

	// GetSessionGroup returns the session group ID for this user.
	GetSessionGroup(r *http.Request, userID string) (groupID string, err error)
}

// AnonymousAuthenticator groups sessions per browser through the
// GroupCookie. The handler sets the cookie when it is missing.
type AnonymousAuthenticator struct{}

// Identify always returns empty string for anonymous users.
func (a *AnonymousAuthenticator) Identify(r *http.Request) (string, error) {
	return "", nil
}

// GetSessionGroup returns the cookie value, or a fresh random ID.
func (a *AnonymousAuthenticator) GetSessionGroup(r *http.Request, userID string) (string, error) {
	cookie, err := r.Cookie(GroupCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return generateSessionID(), nil
}

// ShopperAuthenticator serves public pages. Shoppers stay anonymous and are
// grouped per browser like AnonymousAuthenticator; a browser holding a valid
// TokenCookie is also identified as that merchant. Invalid tokens are
// ignored, never rejected.
type ShopperAuthenticator struct {
	AnonymousAuthenticator
	Tokens *token.TokenService
}

// NewShopperAuthenticator creates a ShopperAuthenticator. tokens may be nil,
// which makes every visitor anonymous.
func NewShopperAuthenticator(tokens *token.TokenService) *ShopperAuthenticator {
	return &ShopperAuthenticator{Tokens: tokens}
}

// Identify returns the merchant of a valid token cookie, or "".
func (a *ShopperAuthenticator) Identify(r *http.Request) (string, error) {
	if a.Tokens == nil {
		return "", nil
	}
	cookie, err := r.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		return "", nil
	}
	claims, err := a.Tokens.VerifyToken(cookie.Value)
	if err != nil {
		return "", nil
	}
	return claims.UserID(), nil
}

// GetSessionGroup returns the browser group, suffixed with ":<userID>" for
// a merchant so signing in builds fresh pages.
func (a *ShopperAuthenticator) GetSessionGroup(r *http.Request, userID string) (string, error) {
	group, err := a.AnonymousAuthenticator.GetSessionGroup(r, userID)
	if err != nil || userID == "" {
		return group, err
	}
	return group + ":" + userID, nil
}

// TokenAuthenticator identifies merchants by the JWT in the Authorization
// header or the TokenCookie. Each merchant is its own session group.
type TokenAuthenticator struct {
	Tokens  *token.TokenService
	Metrics *metrics.Collector
}

// NewTokenAuthenticator creates a TokenAuthenticator. m may be nil.
func NewTokenAuthenticator(tokens *token.TokenService, m *metrics.Collector) *TokenAuthenticator {
	return &TokenAuthenticator{Tokens: tokens, Metrics: m}
}

// Identify verifies the presented token and returns its subject.
func (a *TokenAuthenticator) Identify(r *http.Request) (string, error) {
	raw := bearerToken(r)
	if raw == "" {
		if cookie, err := r.Cookie(TokenCookie); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return "", ErrUnauthenticated
	}

	claims, err := a.Tokens.VerifyToken(raw)
	if err != nil {
		if a.Metrics != nil {
			a.Metrics.IncrementTokenFailure()
		}
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if a.Metrics != nil {
		a.Metrics.IncrementTokenVerified()
	}
	return claims.UserID(), nil
}

// GetSessionGroup returns "merchant:<userID>".
func (a *TokenAuthenticator) GetSessionGroup(r *http.Request, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("cannot get session group for empty userID")
	}
	return "merchant:" + userID, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// generateSessionID creates a cryptographically secure random identifier for session groups.
func generateSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate session ID: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

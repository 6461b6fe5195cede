// Package auth issues and verifies the stateless session credential.
//
// The signed token carries the caller's email and is stored in an HTTP-only
// cookie; no server-side session state exists. Revocation only clears the
// cookie — a stolen token stays cryptographically valid until it expires.
// That tradeoff is deliberate.
package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shashiranjanraj/plantnet/config"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// TokenTTL is the token validity window.
const TokenTTL = 365 * 24 * time.Hour

// Claims holds the typed JWT payload. The email is the identity key;
// the role is never embedded because it can change after issuance.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// Issue creates a signed session token for the given email.
func Issue(email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Verify parses and validates a session token string.
func Verify(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// SetCookie attaches the session token to the response.
// SameSite=None in production (cross-site SPA), Strict in development.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   config.Production(),
		SameSite: sameSite(),
	})
}

// ClearCookie expires the session cookie immediately.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Production(),
		SameSite: sameSite(),
	})
}

// FromRequest extracts the raw token from the session cookie.
// Returns an empty string when the cookie is absent.
func FromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func sameSite() http.SameSite {
	if config.Production() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

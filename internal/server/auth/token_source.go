package auth

import (
	"net/http"
	"strings"
)

const (
	// CookieTokenName is the cookie carrying the session token.
	CookieTokenName = "token"

	bearerPrefix = "Bearer "
)

// TokenFromRequest extracts a session token from the request, checking the
// Authorization header first and falling back to the token cookie. The
// header wins when both are present. Returns an empty string when neither
// carries a token.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}

	cookie, err := r.Cookie(CookieTokenName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

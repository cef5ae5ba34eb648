package auth

import (
	"net/http"
	"time"

	"github.com/gitforge/backend/config"
)

// RefreshCookieName is the cookie carrying the refresh token. The cookie is
// the only server-visible session state; access tokens travel in the body.
const RefreshCookieName = "refresh_token"

// SessionIssuer mints access/refresh token pairs and owns refresh-cookie
// transport. Cookie attributes come from configuration so deployments can
// tighten or relax transport security without code changes.
type SessionIssuer struct {
	codec      *TokenCodec
	cookies    config.CookieConfig
	refreshTTL time.Duration
}

// NewSessionIssuer creates a session issuer over the given codec.
func NewSessionIssuer(codec *TokenCodec, cookies config.CookieConfig, refreshTTL time.Duration) *SessionIssuer {
	return &SessionIssuer{
		codec:      codec,
		cookies:    cookies,
		refreshTTL: refreshTTL,
	}
}

// IssueSession mints a fresh access/refresh pair for a verified principal.
// Both tokens carry the default audience.
func (s *SessionIssuer) IssueSession(subjectID int64) (access, refresh string, err error) {
	access, err = s.codec.Encode(subjectID, DefaultAudience, false)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.codec.Encode(subjectID, DefaultAudience, true)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess mints a single access token, preserving the audience inherited
// from a refresh token.
func (s *SessionIssuer) IssueAccess(subjectID int64, audience string) (string, error) {
	return s.codec.Encode(subjectID, audience, false)
}

// WriteRefreshCookie sets the refresh token cookie with the configured
// transport attributes. Max-age equals the refresh token lifetime.
func (s *SessionIssuer) WriteRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.refreshTTL.Seconds()),
		Secure:   s.cookies.Secure,
		HttpOnly: s.cookies.HTTPOnly,
		SameSite: sameSiteMode(s.cookies.SameSite),
		Domain:   s.cookies.Domain,
	})
}

// ClearRefreshCookie deletes the refresh token cookie. This is the whole of
// logout: the token itself stays valid until natural expiry.
func (s *SessionIssuer) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.cookies.Secure,
		HttpOnly: s.cookies.HTTPOnly,
		SameSite: sameSiteMode(s.cookies.SameSite),
		Domain:   s.cookies.Domain,
	})
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

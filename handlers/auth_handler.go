package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gitforge/backend/app"
	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/services"
	"github.com/gitforge/backend/utils"
)

// TokenResponse is the body returned by login and refresh. The access token
// never travels in a cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginHandler handles POST /auth/login. Credentials arrive form-encoded
// as username/password. Unknown logins and wrong passwords produce the same
// generic failure.
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			HandleServiceError(w, services.ErrBadCredentials, deps.Logger)
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		user, err := deps.AuthService.Login(r.Context(), username, password)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		access, refresh, err := deps.AuthService.IssueSession(user)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.SessionIssuer.WriteRefreshCookie(w, refresh)

		deps.Logger.Info("user logged in", zap.Int64("user_id", user.ID))
		_ = utils.WriteOK(w, TokenResponse{
			AccessToken: access,
			TokenType:   "bearer",
		})
	}
}

// LogoutHandler handles POST /auth/logout. Logout only clears the cookie;
// a refresh token copied out of the cookie stays valid until natural expiry.
func LogoutHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(auth.RefreshCookieName); err != nil {
			HandleServiceError(w, services.ErrLogoutCookieMissing, deps.Logger)
			return
		}

		deps.SessionIssuer.ClearRefreshCookie(w)

		_ = utils.WriteOK(w, utils.StatusResponse{Status: "success"})
	}
}

// RefreshTokenHandler handles GET /auth/token. It exchanges the refresh
// cookie for a fresh access token carrying the refresh token's audience tag.
func RefreshTokenHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.RefreshCookieName)
		if err != nil || cookie.Value == "" {
			HandleServiceError(w, services.ErrRefreshCookieMissing, deps.Logger)
			return
		}

		access, err := deps.AuthService.Refresh(r.Context(), cookie.Value)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, TokenResponse{
			AccessToken: access,
			TokenType:   "bearer",
		})
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/config"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
	"github.com/gitforge/backend/utils"
)

func loginRequest(username, password string) *http.Request {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	t.Run("valid credentials return token pair", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo, new(MockTransactionManager))
		repo.On("GetByLogin", mock.Anything, "admin").Return(seedUser(t, 1, "admin", "admin"), nil)

		rec := httptest.NewRecorder()
		LoginHandler(deps)(rec, loginRequest("admin", "admin"))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "bearer", resp.TokenType)

		claims, err := deps.TokenCodec.Decode(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.SubjectID)

		cookie := findCookie(rec, auth.RefreshCookieName)
		require.NotNil(t, cookie, "refresh cookie must be set")
		refreshClaims, err := deps.TokenCodec.Decode(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, int64(1), refreshClaims.SubjectID)
		assert.True(t, refreshClaims.ExpiresAt.After(claims.ExpiresAt))
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("wrong password yields the generic failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo, new(MockTransactionManager))
		repo.On("GetByLogin", mock.Anything, "admin").Return(seedUser(t, 1, "admin", "admin"), nil)

		rec := httptest.NewRecorder()
		LoginHandler(deps)(rec, loginRequest("admin", "wrong"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INCORRECT_USERNAME_OR_PASSWORD_ENTERED", decodeError(t, rec).Code)
		assert.Nil(t, findCookie(rec, auth.RefreshCookieName))
	})

	t.Run("unknown login yields the identical failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo, new(MockTransactionManager))
		repo.On("GetByLogin", mock.Anything, "ghost").Return(nil, repositories.ErrNotFound)

		rec := httptest.NewRecorder()
		LoginHandler(deps)(rec, loginRequest("ghost", "whatever"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INCORRECT_USERNAME_OR_PASSWORD_ENTERED", decodeError(t, rec).Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("without cookie responds 403", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository), new(MockTransactionManager))

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()
		LogoutHandler(deps)(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "AUTHORIZATION_REQUIRED", decodeError(t, rec).Code)
	})

	t.Run("with cookie clears it", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository), new(MockTransactionManager))

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: "whatever"})
		rec := httptest.NewRecorder()
		LogoutHandler(deps)(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp utils.StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)

		cookie := findCookie(rec, auth.RefreshCookieName)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
	})

	t.Run("cookie is cleared even when the token is garbage", func(t *testing.T) {
		// logout never validates the token
		deps := newTestDeps(t, new(MockUserRepository), new(MockTransactionManager))

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: "not.a.token"})
		rec := httptest.NewRecorder()
		LogoutHandler(deps)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Run("valid cookie yields a fresh access token", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo, new(MockTransactionManager))
		repo.On("GetByID", mock.Anything, int64(1)).Return(&models.User{ID: 1, Login: "admin"}, nil)

		refresh, err := deps.TokenCodec.Encode(1, "cli", true)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: refresh})
		rec := httptest.NewRecorder()
		RefreshTokenHandler(deps)(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims, err := deps.TokenCodec.Decode(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.SubjectID)
		assert.Equal(t, "cli", claims.Audience, "audience must carry over")
	})

	t.Run("missing cookie responds 400", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository), new(MockTransactionManager))

		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		rec := httptest.NewRecorder()
		RefreshTokenHandler(deps)(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "AUTHORIZATION_REQUIRED", decodeError(t, rec).Code)
	})

	t.Run("expired cookie responds 401 TOKEN_EXPIRED", func(t *testing.T) {
		deps := newTestDeps(t, new(MockUserRepository), new(MockTransactionManager))
		expiredCodec, err := auth.NewTokenCodec(config.AuthConfig{
			SecretKey:       "test-secret-key",
			Algorithm:       "HS256",
			AccessTokenTTL:  -time.Minute,
			RefreshTokenTTL: -time.Minute,
		})
		require.NoError(t, err)

		refresh, err := expiredCodec.Encode(1, "", true)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: refresh})
		rec := httptest.NewRecorder()
		RefreshTokenHandler(deps)(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, rec).Code)
	})

	t.Run("deleted principal responds 401 USER_IS_NOT_FOUND", func(t *testing.T) {
		repo := new(MockUserRepository)
		deps := newTestDeps(t, repo, new(MockTransactionManager))
		repo.On("GetByID", mock.Anything, int64(1)).Return(nil, repositories.ErrNotFound)

		refresh, err := deps.TokenCodec.Encode(1, "", true)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: refresh})
		rec := httptest.NewRecorder()
		RefreshTokenHandler(deps)(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "USER_IS_NOT_FOUND", decodeError(t, rec).Code)
	})
}

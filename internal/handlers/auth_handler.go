package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/apperror"
	"storefront/internal/auth"
	"storefront/internal/service"
)

const (
	stateCookie    = "oauth_state"
	stateCookieAge = 600
)

// GoogleAuth is the part of auth.GoogleProvider the handlers need.
type GoogleAuth interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

type AuthHandler struct {
	google       GoogleAuth
	accounts     *service.AccountService
	secureCookie bool
}

// NewAuthHandler accepts a nil google when Google sign-in is not configured.
func NewAuthHandler(google GoogleAuth, accounts *service.AccountService, secureCookie bool) *AuthHandler {
	return &AuthHandler{google: google, accounts: accounts, secureCookie: secureCookie}
}

// GET /v1/auth/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		respondError(c, apperror.New(apperror.NotFound, "Google login is not configured"))
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthCodeURL(state))
}

// GET /v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		respondError(c, apperror.New(apperror.NotFound, "Google login is not configured"))
		return
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		respondError(c, apperror.New(apperror.Unauthorized, "Phiên đăng nhập Google không hợp lệ"))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		respondError(c, apperror.NewValidation("Thiếu mã xác thực Google"))
		return
	}

	googleUser, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		slog.Warn("google exchange failed", "request_id", c.GetString(requestIDKey), "err", err)
		respondError(c, apperror.Wrap(apperror.Unauthorized, "Đăng nhập Google thất bại", err))
		return
	}

	session, err := h.accounts.GoogleSignIn(c.Request.Context(), googleUser)
	if err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, session, h.secureCookie)

	if !session.User.GoogleRegistrationComplete {
		respondOK(c, http.StatusOK, "Vui lòng hoàn tất đăng ký", session)
		return
	}
	respondOK(c, http.StatusOK, "Đăng nhập thành công", session)
}

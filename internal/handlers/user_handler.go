package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/service"
)

type UserHandler struct {
	accounts     *service.AccountService
	secureCookie bool
}

func NewUserHandler(accounts *service.AccountService, secureCookie bool) *UserHandler {
	return &UserHandler{accounts: accounts, secureCookie: secureCookie}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type completeRegistrationRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Đăng ký thành công", user)
}

// POST /v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, session, h.secureCookie)
	respondOK(c, http.StatusOK, "Đăng nhập thành công", session)
}

// POST /v1/users/complete-google-registration
// The account is the caller's; the reissued cookie carries the completed flag.
func (h *UserHandler) CompleteGoogleRegistration(c *gin.Context) {
	var req completeRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	session, err := h.accounts.CompleteGoogleRegistration(c.Request.Context(), auth.PrincipalFrom(c), service.CompleteRegistrationInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, session, h.secureCookie)
	respondOK(c, http.StatusOK, "Hoàn tất đăng ký thành công", session)
}

// GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.accounts.Profile(c.Request.Context(), auth.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", profile)
}

// PUT /v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), auth.PrincipalFrom(c), service.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cập nhật thông tin thành công", user)
}

func setSessionCookie(c *gin.Context, session *service.Session, secure bool) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, session.Token, maxAge, "/", "", secure, true)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/service"
)

// Cookie names for the two token kinds. Both are HTTP-only and
// SameSite=Strict so page scripts cannot read them and they are never sent
// cross-site.
const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// AuthHandler serves registration, login, and refresh.
type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(auth *service.AuthService, cfg config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, secure: cfg.SecureCookies}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone" binding:"required"`
		Password  string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	input := service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	}
	if err := h.auth.Register(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Register success", nil)
}

// Login handles POST /login and sets both token cookies on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Parameter invalid", nil)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, "Logged in successfully", nil)
}

// Refresh handles POST /refresh: it rotates the pair carried by the refresh
// cookie and replaces both cookies.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil {
		refreshToken = ""
	}

	pair, err := h.auth.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	respond(c, http.StatusOK, "Access token refreshed", nil)
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessCookie, pair.AccessToken, int(h.auth.AccessTTL().Seconds()), "/", "", h.secure, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(h.auth.RefreshTTL().Seconds()), "/", "", h.secure, true)
}

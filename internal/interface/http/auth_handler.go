package handlers

import (
	"errors"
	htmpl "html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

type AuthHandler struct {
	Users   *application.UserService
	Cfg     *config.Config
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(users *application.UserService, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Cfg: cfg, Logger: logger, Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	u, err := h.Users.Register(c.Request.Context(), application.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, application.LoginResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsVerified: u.IsVerified}, "user registered, check your email", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	res, pair, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Users.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

// Logout POST /api/auth/logout (auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Users.Logout(c.Request.Context(), c.GetString(middleware.UserIDKey)); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"user_id": c.GetString(middleware.UserIDKey)})
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Profile GET /api/profile (auth)
func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.Users.GetProfile(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":           u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"profileImage": u.ProfileImage,
		"isVerified":   u.IsVerified,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	}, "profile", nil)
}

// ForgotPassword POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "reset link sent", nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if err := h.Users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password updated", nil)
}

var verifyPage = htmpl.Must(htmpl.New("verify").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>{{ .Title }}</title>
    {{ if .Redirect }}<meta http-equiv="refresh" content="2;url={{ .Redirect }}">{{ end }}
  </head>
  <body>
    <h1>{{ .Title }}</h1>
    {{ if .Redirect }}<p>Redirecionando para o app...</p>{{ end }}
  </body>
</html>
`))

// VerifyEmail GET /api/auth/verify-email?token=
// Answers an HTML page for the browser that opened the mailed link.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	status, title := "success", "E-mail verificado com sucesso!"
	err := h.Users.VerifyEmail(c.Request.Context(), c.Query("token"))
	switch {
	case err == nil:
	case errors.Is(err, application.ErrInvalidToken):
		status, title = "failed", "Token inválido ou expirado"
	default:
		status, title = "error", "Erro ao verificar e-mail"
		helpers.LogError(h.Logger, "verify email failed", err, nil)
	}

	redirect := ""
	if h.Cfg.AppRedirectURL != "" {
		redirect = h.Cfg.AppRedirectURL + "?" + url.Values{"status": {status}}.Encode()
	}
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := verifyPage.Execute(c.Writer, map[string]string{"Title": title, "Redirect": redirect}); err != nil {
		helpers.LogError(h.Logger, "render verify page failed", err, nil)
	}
}

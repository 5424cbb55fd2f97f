package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devauth/internal/service"
	"devauth/internal/session"
)

const (
	homePath           = "/home"
	registeredMessage  = "Account created, Redirecting to login…"
	invalidRequestBody = "invalid request"
)

// AuthHandler expone los flujos de registro, login y logout.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
	cookies  session.CookieOptions
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, cookies session.CookieOptions) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
		cookies:  cookies,
	}
}

func (h *AuthHandler) store(c *gin.Context) session.Store {
	return session.NewCookieStore(c.Writer, c.Request, h.cookies)
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FullName        string `json:"full_name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRequestBody})
		return
	}

	res, err := h.authServ.Register(c.Request.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case service.IsValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": service.UserMessage(err)})
		case errors.Is(err, service.ErrAccountExists):
			c.JSON(http.StatusConflict, gin.H{"error": service.UserMessage(err)})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": service.UserMessage(service.ErrRegistrationFailed)})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":              res.User,
		"message":           registeredMessage,
		"redirect":          session.LoginPath,
		"redirect_after_ms": res.RedirectAfter.Milliseconds(),
	})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRequestBody})
		return
	}

	sess, err := h.authServ.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, h.store(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.UserMessage(err)})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.UserMessage(service.ErrLoginFailed)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess, "redirect": homePath})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authServ.Logout(h.store(c)); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": session.LoginPath})
}

// Home maneja GET /home; RequireSession ya validó la sesión.
func (h *AuthHandler) Home(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		redirectToLogin(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"welcome": session.DisplayName(sess),
		"session": sess,
		"logout":  "/auth/logout",
	})
}

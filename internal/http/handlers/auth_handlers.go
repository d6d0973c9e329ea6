package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Triostacksoftware/authkit/domain"
	"github.com/Triostacksoftware/authkit/internal/http/cookies"
	"github.com/Triostacksoftware/authkit/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests. Required-field
// validation lives in the engine, so the binding structs stay permissive
// and the MissingParamError names the offending field.
type AuthHandlers struct {
	authSvc    domain.AuthService
	production bool
	sessionTTL time.Duration
}

// NewAuthHandlers creates new auth handlers. sessionTTL bounds the session
// cookie lifetime to match the token it carries.
func NewAuthHandlers(authSvc domain.AuthService, production bool, sessionTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, production: production, sessionTTL: sessionTTL}
}

// RegisterRequest represents direct registration input
type RegisterRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Name     string         `json:"name,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// LoginRequest represents direct login input
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPSendRequest represents a challenge request for either enrollment path
type OTPSendRequest struct {
	Email      string `json:"email"`
	EmailTitle string `json:"email_title"`
	EmailDescr string `json:"email_descr"`
}

// OTPRegisterVerifyRequest completes a registration challenge
type OTPRegisterVerifyRequest struct {
	Email    string         `json:"email"`
	OTP      string         `json:"otp"`
	Password string         `json:"password"`
	Name     string         `json:"name,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// OTPLoginVerifyRequest completes a login challenge
type OTPLoginVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Register handles direct registration. No session is established.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), domain.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Extra:    req.Extra,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": result.Message,
			"user_id": result.UserID,
		},
	})
}

// Login handles direct login. The token is delivered twice: as the session
// cookie for browsers and in the body for programmatic clients.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	cookies.Set(c.Writer, result.Token, h.production, h.sessionTTL)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": result.Message,
			"user_id": result.UserID,
			"token":   result.Token,
		},
	})
}

// Logout clears the session cookie. It is idempotent: clearing an absent
// cookie produces the same response.
func (h *AuthHandlers) Logout(c *gin.Context) {
	cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out",
		},
	})
}

// SendRegisterOTP starts a registration challenge for a brand-new address.
func (h *AuthHandlers) SendRegisterOTP(c *gin.Context) {
	var req OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.GenerateRegisterOTP(c.Request.Context(), domain.OTPSendParams{
		Email:      req.Email,
		EmailTitle: req.EmailTitle,
		EmailBody:  req.EmailDescr,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": result.Message,
			"email":   result.Email,
		},
	})
}

// VerifyRegisterOTP completes a registration challenge.
func (h *AuthHandlers) VerifyRegisterOTP(c *gin.Context) {
	var req OTPRegisterVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.VerifyRegisterOTP(c.Request.Context(), domain.VerifyRegisterParams{
		Email:    req.Email,
		OTP:      req.OTP,
		Password: req.Password,
		Name:     req.Name,
		Extra:    req.Extra,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": result.Message,
			"user_id": result.UserID,
		},
	})
}

// SendLoginOTP starts a login challenge for an existing account.
func (h *AuthHandlers) SendLoginOTP(c *gin.Context) {
	var req OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.GenerateLoginOTP(c.Request.Context(), domain.OTPSendParams{
		Email:      req.Email,
		EmailTitle: req.EmailTitle,
		EmailBody:  req.EmailDescr,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": result.Message,
			"email":   result.Email,
		},
	})
}

// VerifyLoginOTP completes a login challenge and establishes a session.
func (h *AuthHandlers) VerifyLoginOTP(c *gin.Context) {
	var req OTPLoginVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.VerifyLoginOTP(c.Request.Context(), domain.VerifyLoginParams{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	cookies.Set(c.Writer, result.Token, h.production, h.sessionTTL)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": result.Message,
			"user_id": result.UserID,
			"token":   result.Token,
		},
	})
}

// Me returns the claims injected by the session middleware.
func (h *AuthHandlers) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user": claims,
		},
	})
}

// respondError maps engine errors to transport responses.
func respondError(c *gin.Context, err error) {
	var mp *domain.MissingParamError
	switch {
	case errors.As(err, &mp):
		c.JSON(http.StatusBadRequest, gin.H{"error": mp.Error()})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrInvalidOTPOrEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OTP or email"})
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired. Please request a new one."})
	case errors.Is(err, domain.ErrDispatchTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Notification delivery timed out"})
	case errors.Is(err, domain.ErrDispatchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send notification"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

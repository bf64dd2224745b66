package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medistore/internal/domain"
	"medistore/internal/navigation"
	"medistore/internal/service/auth"
	"medistore/internal/service/identity"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type landingResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        *domain.Session `json:"user"`
	Role        domain.Role     `json:"role"`
	Redirect    string          `json:"redirect"`
	Warning     string          `json:"warning,omitempty"`
}

func (h *handlers) toLanding(l *auth.Landing) landingResponse {
	return landingResponse{
		AccessToken: l.Session.Token,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.Identity.TTLSeconds(),
		User:        l.Session,
		Role:        l.Role,
		Redirect:    l.Route,
		Warning:     l.Warning,
	}
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON")
		return
	}
	landing, err := h.deps.Auth.Register(c.Request.Context(), identity.SignUpInput(req))
	if err != nil {
		writeError(c, h.logger, "signup", err)
		return
	}
	c.JSON(http.StatusCreated, h.toLanding(landing))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	landing, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, h.toLanding(landing))
}

func (h *handlers) logout(c *gin.Context) {
	sess := sessionFrom(c)
	if err := h.deps.Identity.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		writeError(c, h.logger, "logout", err)
		return
	}
	h.deps.Carts.Release(sess.UserID)
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	sess := sessionFrom(c)
	c.JSON(http.StatusOK, gin.H{"user": sess, "role": sess.Role, "dashboard": sess.Role.DashboardRoute()})
}

// navigate resolves a front-end path for the caller so the UI can render the
// page or follow the redirect.
func (h *handlers) navigate(c *gin.Context) {
	target := c.Query("path")
	if target == "" {
		target = "/"
	}
	sess := sessionFrom(c)
	var role domain.Role
	if sess != nil {
		role = sess.Role
	}
	c.JSON(http.StatusOK, navigation.Resolve(target, sess, role))
}

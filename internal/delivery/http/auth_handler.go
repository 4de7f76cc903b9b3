package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/internal/domain"
)

// claimsKey is the gin context key of verified access token claims
const claimsKey = "claims"

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type refreshForm struct {
	RefreshToken string `form:"refresh_token" binding:"required"`
}

// userResponse is the public view of an account
type userResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

// Signup handles POST /api/v1/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	if _, err := h.auth.Signup(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": "Ok"})
}

// Login handles POST /api/v1/auth/token; username carries the email
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, bindError(err))
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var form refreshForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, bindError(err))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), form.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logout": "Ok"})
}

// Me handles GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), claimsFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

// claimsFrom returns the claims stored by AuthMiddleware
func claimsFrom(c *gin.Context) *domain.TokenClaims {
	claims, _ := c.MustGet(claimsKey).(*domain.TokenClaims)
	return claims
}

// internal/mockapi/auth_handlers.go
package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/user"
)

// handleLogin handles POST /api/users/login
func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Email and password are required",
		})
		return
	}

	account, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	s.respondWithTokens(c, http.StatusOK, account)
}

// handleRegister handles POST /api/users/register
func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid registration data",
		})
		return
	}

	account, err := s.store.CreateUser(req.Name, req.Email, req.Password, user.RoleUser)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	s.respondWithTokens(c, http.StatusCreated, account)
}

// handleRefreshToken handles POST /api/users/refresh-token
func (s *Server) handleRefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Refresh token is required",
		})
		return
	}

	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired refresh token",
		})
		return
	}

	account, ok := s.store.GetUser(claims.UserID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Account no longer exists",
		})
		return
	}

	s.respondWithTokens(c, http.StatusOK, account)
}

// respondWithTokens issues a token pair for the account and writes the auth
// envelope: user under data, tokens alongside.
func (s *Server) respondWithTokens(c *gin.Context, status int, account user.User) {
	accessToken, err := s.jwt.GenerateAccessToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to issue token",
		})
		return
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to issue refresh token",
		})
		return
	}

	c.JSON(status, gin.H{
		"data":         account,
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

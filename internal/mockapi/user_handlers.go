// internal/mockapi/user_handlers.go
package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/user"
)

// handleGetUser handles GET /api/users/:id. Users read their own profile;
// admins read anyone's.
func (s *Server) handleGetUser(c *gin.Context) {
	callerID, _ := GetUserIDFromContext(c)
	targetID := c.Param("id")

	if targetID != callerID && c.GetString("user_role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Cannot access another user's profile",
		})
		return
	}

	account, ok := s.store.GetUser(targetID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// handleUpdateUser handles PUT /api/users/:id
func (s *Server) handleUpdateUser(c *gin.Context) {
	callerID, _ := GetUserIDFromContext(c)
	targetID := c.Param("id")
	isAdmin := c.GetString("user_role") == "admin"

	if targetID != callerID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Cannot modify another user's profile",
		})
		return
	}

	var partial user.User
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user data",
		})
		return
	}

	// Role changes are an admin-only operation
	if partial.Role != "" && !isAdmin {
		partial.Role = ""
	}

	updated, err := s.store.UpdateUser(targetID, partial)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// handleListUsers handles GET /api/users (admin)
func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListUsers()})
}

// handleCreateUser handles POST /api/users (admin)
func (s *Server) handleCreateUser(c *gin.Context) {
	var req struct {
		Name     string    `json:"name" binding:"required"`
		Email    string    `json:"email" binding:"required,email"`
		Password string    `json:"password" binding:"required"`
		Role     user.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user data",
		})
		return
	}

	role := req.Role
	if role != user.RoleAdmin {
		role = user.RoleUser
	}

	created, err := s.store.CreateUser(req.Name, req.Email, req.Password, role)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// handleDeleteUser handles DELETE /api/users/:id (admin)
func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.store.DeleteUser(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// handleDashboard handles GET /api/admin/dashboard (admin)
func (s *Server) handleDashboard(c *gin.Context) {
	users, products, orders := s.store.Stats()

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"totalUsers":    users,
			"totalProducts": products,
			"totalOrders":   orders,
		},
	})
}

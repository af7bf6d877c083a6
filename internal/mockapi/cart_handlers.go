// internal/mockapi/cart_handlers.go
package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetCart handles GET /api/cart
func (s *Server) handleGetCart(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.store.GetCart(userID)})
}

// handleAddCartItem handles POST /api/cart/items
func (s *Server) handleAddCartItem(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id and quantity are required",
		})
		return
	}

	items, err := s.store.AddCartItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// handleUpdateCartItem handles PUT /api/cart/items/:id. The response is
// either a full collection of nested entries or a partial acknowledgement,
// depending on whether the update removed the line.
func (s *Server) handleUpdateCartItem(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity is required",
		})
		return
	}

	result, err := s.store.UpdateCartItem(userID, c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	if result.Entries != nil {
		c.JSON(http.StatusOK, gin.H{"data": result.Entries})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result.Ack})
}

// handleRemoveCartItem handles DELETE /api/cart/items/:id. Deletion is
// confirmed by identifier; removing an absent line still succeeds.
func (s *Server) handleRemoveCartItem(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	s.store.RemoveCartItem(userID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

// handleClearCart handles DELETE /api/cart
func (s *Server) handleClearCart(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	s.store.ClearCart(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

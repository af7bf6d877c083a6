// internal/mockapi/product_handlers.go
package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-client/internal/domain/product"
)

// handleListProducts handles GET /api/products
func (s *Server) handleListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListProducts()})
}

// handleGetProduct handles GET /api/products/:id
func (s *Server) handleGetProduct(c *gin.Context) {
	p, ok := s.store.GetProduct(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// handleSearchProducts handles GET /api/products/search?q=
func (s *Server) handleSearchProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.SearchProducts(c.Query("q"))})
}

// handleSuggestions handles GET /api/products/suggestions?q=
func (s *Server) handleSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.Suggestions(c.Query("q"))})
}

// handleCategories handles GET /api/products/categories
func (s *Server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": product.DefaultCategories})
}

// handleProductsByCategory handles GET /api/products/category/:id
func (s *Server) handleProductsByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ProductsByCategory(c.Param("id"))})
}

// handleCreateProduct handles POST /api/products (admin)
func (s *Server) handleCreateProduct(c *gin.Context) {
	var p product.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product data",
		})
		return
	}

	created, err := s.store.CreateProduct(&p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// handleUpdateProduct handles PUT /api/products/:id (admin)
func (s *Server) handleUpdateProduct(c *gin.Context) {
	var p product.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product data",
		})
		return
	}

	updated, err := s.store.UpdateProduct(c.Param("id"), &p)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "product not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// handleDeleteProduct handles DELETE /api/products/:id (admin)
func (s *Server) handleDeleteProduct(c *gin.Context) {
	if err := s.store.DeleteProduct(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

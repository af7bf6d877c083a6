// internal/mockapi/server.go
package mockapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/auth"
)

// Server is an in-memory implementation of the storefront REST API. It
// backs local development and the test suite; responses use the standard
// envelope (payload under `data`, failures under `error`).
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	store      *dataStore
	jwt        *auth.JWTManager
}

// NewServer creates a fixture server with a seeded dataset
func NewServer(cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		store:  newDataStore(),
		jwt:    auth.NewJWTManager(cfg),
	}

	if err := s.store.Seed(); err != nil {
		return nil, fmt.Errorf("failed to seed fixture data: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	s.gin.Use(gin.Recovery())
	s.gin.Use(RequestID())
	s.gin.Use(RequestLogger(logger))

	s.setupRoutes()

	return s, nil
}

// Handler exposes the underlying handler, used by httptest in the suite
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Store exposes the dataset for test arrangement
func (s *Server) Store() *dataStore {
	return s.store
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("Storefront fixture API listening on port %s", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// setupRoutes wires the REST surface consumed by the client
func (s *Server) setupRoutes() {
	api := s.gin.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/login", s.handleLogin)
		users.POST("/register", s.handleRegister)
		users.POST("/refresh-token", s.handleRefreshToken)

		authed := users.Group("")
		authed.Use(AuthMiddleware(s.config))
		{
			authed.GET("/:id", s.handleGetUser)
			authed.PUT("/:id", s.handleUpdateUser)

			admin := authed.Group("")
			admin.Use(AdminMiddleware())
			{
				admin.GET("", s.handleListUsers)
				admin.POST("", s.handleCreateUser)
				admin.DELETE("/:id", s.handleDeleteUser)
			}
		}
	}

	products := api.Group("/products")
	{
		products.GET("", s.handleListProducts)
		products.GET("/search", s.handleSearchProducts)
		products.GET("/suggestions", s.handleSuggestions)
		products.GET("/categories", s.handleCategories)
		products.GET("/category/:id", s.handleProductsByCategory)
		products.GET("/:id", s.handleGetProduct)

		admin := products.Group("")
		admin.Use(AuthMiddleware(s.config), AdminMiddleware())
		{
			admin.POST("", s.handleCreateProduct)
			admin.PUT("/:id", s.handleUpdateProduct)
			admin.DELETE("/:id", s.handleDeleteProduct)
		}
	}

	cartGroup := api.Group("/cart")
	cartGroup.Use(AuthMiddleware(s.config))
	{
		cartGroup.GET("", s.handleGetCart)
		cartGroup.DELETE("", s.handleClearCart)
		cartGroup.POST("/items", s.handleAddCartItem)
		cartGroup.PUT("/items/:id", s.handleUpdateCartItem)
		cartGroup.DELETE("/items/:id", s.handleRemoveCartItem)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(AuthMiddleware(s.config), AdminMiddleware())
	{
		adminGroup.GET("/dashboard", s.handleDashboard)
	}

	images := api.Group("/images")
	images.Use(AuthMiddleware(s.config), AdminMiddleware())
	{
		images.POST("/upload", s.handleUploadImage)
	}

	// Serve uploaded images
	s.gin.Static("/uploads", s.config.Upload.LocalPath)
}

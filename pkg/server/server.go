package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynguyendang/formalmath/internal/manager"
)

// Server holds the state for the REST API server.
type Server struct {
	manager *manager.SystemManager
	router  *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(mgr *manager.SystemManager) *Server {
	r := gin.Default()
	s := &Server{
		manager: mgr,
		router:  r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/v1/systems", s.handleSystems)
	s.router.GET("/v1/systems/:id", s.handleSystemDetail)
	s.router.POST("/v1/verify", s.handleVerify)
	s.router.GET("/v1/symbols", s.handleSymbols)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/photon-storage/go-common/log"

	"github.com/riskless-finance/riskless/api/service"
)

// Server defines an instance of a server that handles the requests of
// the third-party application.
type Server struct {
	port   int
	engine *gin.Engine
}

// New returns a new instance of the server.
func New(port int, service *service.Service) *Server {
	server := &Server{
		port:   port,
		engine: gin.Default(),
	}

	server.registerRouter(service)
	return server
}

func (s *Server) registerRouter(service *service.Service) {
	s.engine.Use(handleError())
	g := s.engine.Group("riskless/v1")

	g.GET("ping", s.handle(service.Ping))

	g.POST("projects", s.handle(service.CreateProject))
	g.GET("projects", s.handle(service.Projects))
	g.GET("project-address", s.handle(service.ProjectAddress))
	g.GET("project-status", s.handle(service.ProjectStatus))
	g.GET("user-balance", s.handle(service.UserBalance))

	g.POST("fund", s.handle(service.FundProject))
	g.POST("withdraw-principal", s.handle(service.WithdrawPrincipal))
	g.POST("change-status", s.handle(service.ChangeProjectStatus))
	g.POST("withdraw-yield", s.handle(service.WithdrawYield))

	g.POST("factory-admin", s.handle(service.UpdateFactoryAdmin))
	g.POST("project-admin", s.handle(service.UpdateProjectAdmin))
}

// Run the server
func (s *Server) Run() {
	if err := s.engine.Run(fmt.Sprintf(":%d", s.port)); err != nil {
		log.Error("run the server failed", "error", err)
		os.Exit(1)
	}
}

// Engine exposes the underlying router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

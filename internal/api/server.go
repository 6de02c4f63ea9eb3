// Package api serves tasks and subtasks over JSON HTTP.
package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandeepkv93/taskboard/internal/service"
)

type Server struct {
	svc    service.Service
	router *gin.Engine
}

type Option func(*options)

type options struct {
	logWriter io.Writer
}

// WithLogWriter sends the request log to w. Without it requests are not logged.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) {
		o.logWriter = w
	}
}

func NewServer(svc service.Service, opts ...Option) *Server {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	router := gin.New()
	if cfg.logWriter != nil {
		router.Use(gin.LoggerWithWriter(cfg.logWriter))
		router.Use(gin.RecoveryWithWriter(cfg.logWriter))
	} else {
		router.Use(gin.Recovery())
	}

	s := &Server{
		svc:    svc,
		router: router,
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/subtasks", s.handleListSubtasks)
		api.POST("/subtasks", s.handleCreateSubtask)
		api.PUT("/subtasks/:id", s.handleUpdateSubtask)
		api.DELETE("/subtasks/:id", s.handleDeleteSubtask)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

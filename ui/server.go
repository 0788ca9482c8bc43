package ui

import (
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"

	"bellybutton/adapters/render"
	"bellybutton/internal"
	"bellybutton/internal/dashboard"
	"bellybutton/ui/templates/fragments"
)

// Server serves the dashboard page and its JSON and HTMX endpoints. The
// controller renders into the surface; handlers read the surface back.
type Server struct {
	router     *gin.Engine
	controller *dashboard.Controller
	surface    *render.Surface
	templates  *template.Template
	logger     *internal.Logger
}

// NewServer creates the dashboard server. surface must be the renderer
// the controller was created with.
func NewServer(controller *dashboard.Controller, surface *render.Surface, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NopLogger()
	}
	s := &Server{
		router:     gin.New(),
		controller: controller,
		surface:    surface,
		logger:     logger.With("Server"),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("")
	for _, path := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}
		if _, err := s.templates.New(path).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
	}
	s.logger.Debug("parsed %d templates", len(fragments.GetAllTemplatePaths()))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Dashboard page and subject report
	s.router.GET("/", s.handleIndex)
	s.router.GET("/reports/:id", s.handleReport)

	// JSON API
	s.router.GET("/api/dataset/status", s.handleDatasetStatus)
	s.router.POST("/api/dataset/reload", s.handleDatasetReload)
	s.router.GET("/api/subjects", s.handleSubjects)
	s.router.GET("/api/subjects/:id/views", s.handleSubjectViews)
	s.router.POST("/api/selection", s.handleSelection)
	s.router.GET("/api/views", s.handleViews)

	// HTMX fragments
	s.router.GET("/fragments/metadata", s.handleFragmentMetadata)
	s.router.GET("/fragments/summary", s.handleFragmentSummary)
}

// Handler exposes the gin engine for mounting under the outer router
func (s *Server) Handler() *gin.Engine {
	return s.router
}

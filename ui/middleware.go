package ui

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Error("failed to create static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// requestLogger logs API calls at debug level and failures at warn level
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Round(time.Microsecond)
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Warn("%s %s -> %d (%v) %s", c.Request.Method, c.Request.URL.Path, status, elapsed, c.Errors.String())
		default:
			s.logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}

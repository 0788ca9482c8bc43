package ui

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bellybutton/ui/templates/fragments"
)

// renderTemplate executes a template into a buffer first so a failing
// template never writes a partial response
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error for %s: %v (data %T)", templateName, err, data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if fragments.GetTemplateCategory(templateName) == "page" && !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("rendered template %s appears truncated, missing </html>", templateName)
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// HTMX helpers
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

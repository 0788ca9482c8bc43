package ui

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"bellybutton/domain/chart"
	"bellybutton/internal/errors"
	"bellybutton/ui/templates/fragments"
)

const (
	metadataTemplate = fragments.MetadataPanel
	summaryTemplate  = fragments.SummaryPanel
)

// handleFragmentMetadata returns the demographic info panel. Without a
// subject query it shows what the dashboard currently displays.
func (s *Server) handleFragmentMetadata(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		raw, _ := s.surface.Region(chart.RegionMetadata)
		s.renderTemplate(c, metadataTemplate, decodeRegion[chart.MetadataPanel](raw))
		return
	}

	views, err := s.controller.Project(subject)
	if err != nil {
		s.fragmentError(c, err)
		return
	}
	s.renderTemplate(c, metadataTemplate, views.Metadata)
}

// handleFragmentSummary returns the diversity summary panel
func (s *Server) handleFragmentSummary(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		raw, _ := s.surface.Region(chart.RegionSummary)
		s.renderTemplate(c, summaryTemplate, decodeRegion[chart.Summary](raw))
		return
	}

	views, err := s.controller.Project(subject)
	if err != nil {
		s.fragmentError(c, err)
		return
	}
	s.renderTemplate(c, summaryTemplate, views.Summary)
}

func (s *Server) fragmentError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Data(errors.HTTPStatus(err), "text/html; charset=utf-8",
		[]byte(`<p class="muted">`+template.HTMLEscapeString(err.Error())+`</p>`))
	c.Abort()
}

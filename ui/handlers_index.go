package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"bellybutton/domain/chart"
	"bellybutton/internal/dashboard"
	"bellybutton/internal/report"
	"bellybutton/ui/templates/fragments"
)

type indexPage struct {
	Options  []chart.Option
	Selected string
	Failure  string
	Status   dashboard.Status
	Metadata *chart.MetadataPanel
	Summary  *chart.Summary
}

type reportPage struct {
	Subject string
	Body    template.HTML
}

// handleIndex renders the dashboard page from what the surface currently
// displays. Charts are drawn client side from /api/views.
func (s *Server) handleIndex(c *gin.Context) {
	snapshot := s.surface.Snapshot()

	page := indexPage{
		Options:  snapshot.Options,
		Selected: snapshot.Subject,
		Failure:  snapshot.Failure,
		Status:   s.controller.Status(),
		Metadata: decodeRegion[chart.MetadataPanel](snapshot.Regions[chart.RegionMetadata]),
		Summary:  decodeRegion[chart.Summary](snapshot.Regions[chart.RegionSummary]),
	}
	if page.Status.State == dashboard.StateLoading {
		s.logger.Debug("dataset not loaded yet, rendering empty dashboard")
	}
	s.renderTemplate(c, fragments.Index, page)
}

// handleReport renders the subject report as HTML, or as markdown with ?format=md
func (s *Server) handleReport(c *gin.Context) {
	views, err := s.controller.Project(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	md := report.Markdown(views)
	if c.Query("format") == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}
	s.renderTemplate(c, fragments.Report, reportPage{
		Subject: views.Subject,
		// sanitized by report.HTML
		Body: template.HTML(report.HTML(md)),
	})
}

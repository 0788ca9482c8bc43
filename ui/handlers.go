package ui

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"bellybutton/internal/errors"
)

type selectionRequest struct {
	Subject string `json:"subject" form:"subject" binding:"required"`
}

// handleDatasetStatus returns the current loading status of the dataset
func (s *Server) handleDatasetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

// handleDatasetReload re-runs initialization, fetching again only if the
// previous load failed
func (s *Server) handleDatasetReload(c *gin.Context) {
	if err := s.controller.Initialize(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}

// handleSubjects lists the subject IDs in dataset order
func (s *Server) handleSubjects(c *gin.Context) {
	ds, ok := s.controller.Dataset()
	if !ok {
		s.respondError(c, errors.DatasetNotLoaded())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subjects": ds.Names,
		"count":    len(ds.Names),
		"selected": s.controller.Selected(),
	})
}

// handleSelection is the selector change handler: it selects the subject
// and returns the rendered views
func (s *Server) handleSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBind(&req); err != nil {
		s.respondError(c, errors.InvalidInput("subject is required", err))
		return
	}

	views, err := s.controller.SelectSubject(c.Request.Context(), req.Subject)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if isHTMX(c) {
		s.renderTemplate(c, metadataTemplate, views.Metadata)
		return
	}
	c.JSON(http.StatusOK, views)
}

// handleViews returns what the dashboard currently displays
func (s *Server) handleViews(c *gin.Context) {
	c.JSON(http.StatusOK, s.surface.Snapshot())
}

// handleSubjectViews projects a subject without changing the selection
func (s *Server) handleSubjectViews(c *gin.Context) {
	views, err := s.controller.Project(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// decodeRegion decodes a surface region, returning nil when the region is
// empty or cannot be decoded
func decodeRegion[T any](raw json.RawMessage) *T {
	if len(raw) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

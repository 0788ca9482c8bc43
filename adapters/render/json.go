package render

import (
	"encoding/json"
	"io"

	"bellybutton/domain/chart"
)

// JSONWriter renders each call as one indented JSON document on w
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a renderer writing to w
func NewJSONWriter(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONWriter{enc: enc}
}

// RenderSelector writes the selector options
func (j *JSONWriter) RenderSelector(options []chart.Option) error {
	return j.enc.Encode(map[string]interface{}{string(chart.RegionSelector): options})
}

// RenderViews writes the view set
func (j *JSONWriter) RenderViews(views *chart.ViewSet) error {
	return j.enc.Encode(views)
}

// RenderLoadFailure writes the failure message
func (j *JSONWriter) RenderLoadFailure(cause error) error {
	return j.enc.Encode(map[string]string{"error": cause.Error()})
}

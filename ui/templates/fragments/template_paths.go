// Package fragments provides template path constants for the dashboard templates
package fragments

import "strings"

// Template paths, relative to ui/templates
const (
	// Pages
	Index  = "index.html"
	Report = "report.html"

	// Panels swapped in by HTMX
	MetadataPanel = "fragments/metadata_panel.html"
	SummaryPanel  = "fragments/summary_panel.html"
	LoadFailure   = "fragments/load_failure.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		Index,
		Report,

		MetadataPanel,
		SummaryPanel,
		LoadFailure,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "fragments/"):
		return "fragment"
	case strings.HasSuffix(templatePath, ".html"):
		return "page"
	default:
		return "unknown"
	}
}

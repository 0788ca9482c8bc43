package ports

import (
	"bellybutton/domain/chart"
)

// Renderer is the display surface the dashboard controller writes to.
// Every call replaces the previous content of the regions it covers.
type Renderer interface {
	// RenderSelector replaces the selector options
	RenderSelector(options []chart.Option) error

	// RenderViews replaces the bar, bubble, gauge, metadata and summary
	// regions. Nil views clear their region.
	RenderViews(views *chart.ViewSet) error

	// RenderLoadFailure shows that the dataset could not be loaded
	RenderLoadFailure(cause error) error
}

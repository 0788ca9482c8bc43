package render

import (
	"encoding/json"
	"fmt"
	"sync"

	"bellybutton/domain/chart"
)

// Surface keeps the current content of every dashboard region in memory,
// encoded as the JSON the browser hands to Plotly. The web UI reads it to
// serve the page; tests read it to assert on what was displayed.
type Surface struct {
	mu      sync.RWMutex
	options []chart.Option
	regions map[chart.Region]json.RawMessage
	subject string
	failure string
	version int
}

// Snapshot is a copy of the surface at one point in time
type Snapshot struct {
	Options []chart.Option                   `json:"options"`
	Regions map[chart.Region]json.RawMessage `json:"regions"`
	Subject string                           `json:"subject,omitempty"`
	Failure string                           `json:"failure,omitempty"`
	Version int                              `json:"version"`
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{
		options: []chart.Option{},
		regions: make(map[chart.Region]json.RawMessage),
	}
}

// RenderSelector replaces the selector options
func (s *Surface) RenderSelector(options []chart.Option) error {
	copied := append([]chart.Option{}, options...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = copied
	s.version++
	return nil
}

// RenderViews encodes every region first and swaps them in together, so a
// failed encode leaves the previous views untouched
func (s *Surface) RenderViews(views *chart.ViewSet) error {
	if views == nil {
		return fmt.Errorf("render: nil view set")
	}

	encoded := make(map[chart.Region]json.RawMessage, len(chart.ViewRegions))
	for _, region := range chart.ViewRegions {
		view := views.View(region)
		if view == nil {
			continue
		}
		data, err := json.Marshal(view)
		if err != nil {
			return fmt.Errorf("render %s: %w", region, err)
		}
		encoded[region] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = encoded
	s.subject = views.Subject
	s.failure = ""
	s.version++
	return nil
}

// RenderLoadFailure records the load failure shown instead of the charts
func (s *Surface) RenderLoadFailure(cause error) error {
	message := "failed to load dataset"
	if cause != nil {
		message = cause.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = message
	s.version++
	return nil
}

// Region returns the encoded content of region
func (s *Surface) Region(region chart.Region) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.regions[region]
	return data, ok
}

// Snapshot copies the current state
func (s *Surface) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regions := make(map[chart.Region]json.RawMessage, len(s.regions))
	for k, v := range s.regions {
		regions[k] = append(json.RawMessage(nil), v...)
	}
	return Snapshot{
		Options: append([]chart.Option{}, s.options...),
		Regions: regions,
		Subject: s.subject,
		Failure: s.failure,
		Version: s.version,
	}
}

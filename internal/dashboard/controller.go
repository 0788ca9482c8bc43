package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bellybutton/domain/chart"
	"bellybutton/domain/core"
	"bellybutton/domain/dataset"
	"bellybutton/internal"
	"bellybutton/internal/errors"
	"bellybutton/internal/metrics"
	"bellybutton/ports"
)

// Load states reported by Status
const (
	StateLoading = "loading"
	StateLoaded  = "loaded"
	StateFailed  = "failed"
)

// Controller owns the dashboard session: the load-once dataset, the
// current selection and the renderer the views are pushed to.
type Controller struct {
	source    ports.DatasetSource
	renderer  ports.Renderer
	logger    *internal.Logger
	metrics   *metrics.Recorder
	sessionID core.ID

	loads singleflight.Group

	mu       sync.RWMutex
	data     *dataset.Dataset
	loadedAt time.Time
	loadErr  error

	// selections are applied one at a time, like the browser event loop
	selectMu sync.Mutex
	selected string
}

// Status describes the controller for status endpoints and the CLI
type Status struct {
	State    string    `json:"state"`
	Source   string    `json:"source"`
	Session  core.ID   `json:"session"`
	Subjects int       `json:"subjects"`
	Selected string    `json:"selected,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger
func WithLogger(logger *internal.Logger) Option {
	return func(c *Controller) {
		c.logger = logger.With("Controller")
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = recorder
	}
}

// NewController creates a controller that loads from source and renders to renderer
func NewController(source ports.DatasetSource, renderer ports.Renderer, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		renderer:  renderer,
		logger:    internal.NopLogger(),
		sessionID: core.NewID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the dataset if it is not cached yet, populates the
// selector and selects the first subject. A failed load is rendered as
// a load failure and may be retried by calling Initialize again.
func (c *Controller) Initialize(ctx context.Context) error {
	ds, err := c.load(ctx)
	if err != nil {
		c.logger.Error("dataset load failed: %v", err)
		if renderErr := c.renderer.RenderLoadFailure(err); renderErr != nil {
			c.logger.Warn("failed to render load failure: %v", renderErr)
		}
		return err
	}

	options := make([]chart.Option, len(ds.Names))
	for i, name := range ds.Names {
		options[i] = chart.Option{Text: name, Value: name}
	}
	if err := c.renderer.RenderSelector(options); err != nil {
		return errors.Wrap(err, "failed to populate selector")
	}

	if len(ds.Names) == 0 {
		c.logger.Warn("dataset from %s has no subjects, nothing to select", c.source.Describe())
		return nil
	}

	_, err = c.SelectSubject(ctx, ds.Names[0])
	return err
}

// Load fetches the dataset if it is not cached yet, without rendering
// anything. Command line tools use it before projecting subjects.
func (c *Controller) Load(ctx context.Context) (*dataset.Dataset, error) {
	return c.load(ctx)
}

func (c *Controller) load(ctx context.Context) (*dataset.Dataset, error) {
	if ds, ok := c.Dataset(); ok {
		c.logger.Debug("dataset already cached, skipping fetch")
		return ds, nil
	}

	v, err, shared := c.loads.Do("dataset", func() (interface{}, error) {
		if ds, ok := c.Dataset(); ok {
			return ds, nil
		}

		start := time.Now()
		ds, err := c.source.Fetch(ctx)
		c.metrics.ObserveFetch(time.Since(start), err)
		if err != nil {
			loadErr := errors.FetchFailed(c.source.Describe(), err)
			c.mu.Lock()
			c.loadErr = loadErr
			c.mu.Unlock()
			return nil, loadErr
		}

		c.mu.Lock()
		c.data = ds
		c.loadedAt = time.Now()
		c.loadErr = nil
		c.mu.Unlock()

		c.metrics.SetSubjects(len(ds.Names))
		for _, skipped := range ds.Skipped {
			c.logger.Warn("skipped record %s from %s", skipped, c.source.Describe())
		}
		c.logger.Info("loaded %d subjects from %s in %s", len(ds.Names), c.source.Describe(), time.Since(start).Round(time.Millisecond))
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("joined in-flight dataset fetch")
	}
	return v.(*dataset.Dataset), nil
}

// SelectSubject projects the named subject and renders all views. An
// unknown subject is rejected before anything is rendered, so the views
// of the previous selection stay in place.
func (c *Controller) SelectSubject(ctx context.Context, subject string) (*chart.ViewSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.selectMu.Lock()
	defer c.selectMu.Unlock()

	ds, ok := c.Dataset()
	if !ok {
		c.metrics.ObserveSelection(metrics.OutcomeError)
		return nil, errors.DatasetNotLoaded()
	}

	views, err := Project(ds, subject)
	if err != nil {
		if errors.HasCode(err, errors.CodeUnknownSubject) {
			c.logger.Warn("ignoring selection of unknown subject %q", subject)
			c.metrics.ObserveSelection(metrics.OutcomeUnknown)
		} else {
			c.metrics.ObserveSelection(metrics.OutcomeError)
		}
		return nil, err
	}

	for _, skipped := range views.Skipped {
		c.logger.Warn("subject %s: %s view skipped: %s", views.Subject, skipped.Region, skipped.Reason)
	}

	if err := c.renderer.RenderViews(views); err != nil {
		c.metrics.ObserveSelection(metrics.OutcomeError)
		return nil, errors.Wrapf(err, "failed to render subject %s", views.Subject)
	}

	c.selected = views.Subject
	if len(views.Skipped) > 0 {
		c.metrics.ObserveSelection(metrics.OutcomePartial)
	} else {
		c.metrics.ObserveSelection(metrics.OutcomeRendered)
	}
	c.logger.Debug("rendered subject %s", views.Subject)
	return views, nil
}

// Project builds the views for subject from the cached dataset without
// rendering them or changing the selection
func (c *Controller) Project(subject string) (*chart.ViewSet, error) {
	ds, ok := c.Dataset()
	if !ok {
		return nil, errors.DatasetNotLoaded()
	}
	return Project(ds, subject)
}

// Dataset returns the cached dataset, if loaded
func (c *Controller) Dataset() (*dataset.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data, c.data != nil
}

// Selected returns the currently selected subject, or "" before the first selection
func (c *Controller) Selected() string {
	c.selectMu.Lock()
	defer c.selectMu.Unlock()
	return c.selected
}

// SessionID identifies this dashboard session in logs and status output
func (c *Controller) SessionID() core.ID {
	return c.sessionID
}

// Status reports load state and selection
func (c *Controller) Status() Status {
	selected := c.Selected()

	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		State:    StateLoading,
		Source:   c.source.Describe(),
		Session:  c.sessionID,
		Selected: selected,
	}
	switch {
	case c.data != nil:
		status.State = StateLoaded
		status.Subjects = len(c.data.Names)
		status.LoadedAt = c.loadedAt
	case c.loadErr != nil:
		status.State = StateFailed
		status.Error = c.loadErr.Error()
	}
	return status
}

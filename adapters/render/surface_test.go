package render

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellybutton/domain/chart"
)

func TestSurfaceRenderViews(t *testing.T) {
	surface := NewSurface()
	views := &chart.ViewSet{
		Subject:  "940",
		Bar:      &chart.Figure{Data: []chart.Trace{{Type: "bar"}}},
		Metadata: &chart.MetadataPanel{Lines: []string{"id: 940"}},
	}

	require.NoError(t, surface.RenderViews(views))

	bar, ok := surface.Region(chart.RegionBar)
	require.True(t, ok)
	assert.JSONEq(t, `{"data":[{"type":"bar"}],"layout":{}}`, string(bar))

	meta, ok := surface.Region(chart.RegionMetadata)
	require.True(t, ok)
	assert.JSONEq(t, `{"lines":["id: 940"]}`, string(meta))

	_, ok = surface.Region(chart.RegionGauge)
	assert.False(t, ok)
	assert.Equal(t, "940", surface.Snapshot().Subject)
}

func TestSurfaceReplacesAllRegions(t *testing.T) {
	surface := NewSurface()
	require.NoError(t, surface.RenderViews(&chart.ViewSet{
		Subject: "940",
		Bar:     &chart.Figure{},
		Gauge:   &chart.Figure{},
	}))
	require.NoError(t, surface.RenderViews(&chart.ViewSet{
		Subject: "941",
		Gauge:   &chart.Figure{},
	}))

	snapshot := surface.Snapshot()
	assert.NotContains(t, snapshot.Regions, chart.RegionBar)
	assert.Contains(t, snapshot.Regions, chart.RegionGauge)
	assert.Equal(t, 2, snapshot.Version)
}

func TestSurfaceSelectorAndFailure(t *testing.T) {
	surface := NewSurface()
	options := []chart.Option{{Text: "940", Value: "940"}}
	require.NoError(t, surface.RenderSelector(options))
	options[0].Text = "mutated"

	require.NoError(t, surface.RenderLoadFailure(stderrors.New("timeout")))

	snapshot := surface.Snapshot()
	assert.Equal(t, "940", snapshot.Options[0].Text)
	assert.Equal(t, "timeout", snapshot.Failure)

	require.NoError(t, surface.RenderViews(&chart.ViewSet{Subject: "940"}))
	assert.Empty(t, surface.Snapshot().Failure)
}

func TestSurfaceRejectsNilViews(t *testing.T) {
	assert.Error(t, NewSurface().RenderViews(nil))
}

func TestSnapshotIsACopy(t *testing.T) {
	surface := NewSurface()
	require.NoError(t, surface.RenderViews(&chart.ViewSet{Subject: "940", Bar: &chart.Figure{}}))

	snapshot := surface.Snapshot()
	snapshot.Regions[chart.RegionBar][0] = 'x'

	bar, _ := surface.Region(chart.RegionBar)
	assert.Equal(t, byte('{'), bar[0])
}

package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellybutton/domain/chart"
	"bellybutton/domain/dataset"
	"bellybutton/internal/errors"
)

func TestProjectExampleSubject(t *testing.T) {
	ds := loadExample(t)

	views, err := Project(ds, "940")
	require.NoError(t, err)
	assert.Equal(t, "940", views.Subject)
	assert.Empty(t, views.Skipped)

	bar := views.Bar.Data[0]
	assert.Equal(t, "bar", bar.Type)
	assert.Equal(t, "h", bar.Orientation)
	assert.Equal(t, []float64{30, 20, 10}, bar.X)
	assert.Equal(t, []string{"OTU 3", "OTU 2", "OTU 1"}, bar.Y)
	assert.Equal(t, []string{"c", "b", "a"}, bar.Text)
	assert.Equal(t, "Top 10 OTUs for Subject ID 940", views.Bar.Layout.Title)

	bubble := views.Bubble.Data[0]
	assert.Equal(t, []int{1, 2, 3}, bubble.X)
	assert.Equal(t, []float64{10, 20, 30}, bubble.Y)
	assert.Equal(t, []string{"a", "b", "c"}, bubble.Text)
	assert.Equal(t, []float64{10, 20, 30}, bubble.Marker.Size)
	assert.Equal(t, []int{1, 2, 3}, bubble.Marker.Color)
	assert.Equal(t, "Viridis", bubble.Marker.ColorScale)

	gauge := views.Gauge.Data[0]
	require.NotNil(t, gauge.Value)
	assert.Equal(t, 5.0, *gauge.Value)

	assert.Equal(t, []string{"id: 940", "wfreq: 5"}, views.Metadata.Lines)
}

func TestProjectBarTruncatesAndReverses(t *testing.T) {
	ds := loadExample(t)

	views, err := Project(ds, "941")
	require.NoError(t, err)

	bar := views.Bar.Data[0]
	assert.Equal(t, []float64{30, 40, 50, 60, 70, 80, 90, 100, 110, 120}, bar.X)
	assert.Equal(t, "OTU 20", bar.Y.([]string)[0])
	assert.Equal(t, "OTU 11", bar.Y.([]string)[9])
	assert.Len(t, views.Bubble.Data[0].X, 12)
}

func TestProjectEntryCounts(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 40} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			sample := &dataset.Sample{ID: "1"}
			for i := 0; i < n; i++ {
				sample.OTUIDs = append(sample.OTUIDs, i)
				sample.OTULabels = append(sample.OTULabels, fmt.Sprintf("label %d", i))
				sample.SampleValues = append(sample.SampleValues, float64(n-i))
			}

			bar := BarFigure(sample).Data[0]
			expected := min(10, n)
			require.Len(t, bar.X, expected)
			for i := 0; i < expected; i++ {
				assert.Equal(t, sample.SampleValues[expected-1-i], bar.X.([]float64)[i])
				assert.Equal(t, sample.OTULabels[expected-1-i], bar.Text[i])
			}

			assert.Len(t, BubbleFigure(sample).Data[0].X, n)
		})
	}
}

func TestBubbleDoesNotAliasDataset(t *testing.T) {
	sample := &dataset.Sample{ID: "1", OTUIDs: []int{1}, OTULabels: []string{"a"}, SampleValues: []float64{2}}
	fig := BubbleFigure(sample)
	fig.Data[0].Marker.Size[0] = 99
	assert.Equal(t, 2.0, sample.SampleValues[0])
}

func TestGaugeFigure(t *testing.T) {
	value := 7.0
	fig := GaugeFigure(&value)
	trace := fig.Data[0]

	assert.Equal(t, "indicator", trace.Type)
	assert.Equal(t, "gauge+number", trace.Mode)
	assert.Equal(t, 7.0, *trace.Value)
	assert.Equal(t, [2]float64{0, 9}, trace.Gauge.Axis.Range)
	require.Len(t, trace.Gauge.Steps, 9)
	for i, step := range trace.Gauge.Steps {
		assert.Equal(t, [2]float64{float64(i), float64(i + 1)}, step.Range)
	}
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", trace.Gauge.Steps[0].Color)
	assert.Equal(t, "rgba(102, 255, 0, 0.5)", trace.Gauge.Steps[8].Color)
	assert.Equal(t, 400, fig.Layout.Width)
	assert.Equal(t, 300, fig.Layout.Height)

	value = 1
	assert.Equal(t, 7.0, *trace.Value, "gauge must not alias its input")
}

func TestGaugeNullValueOmitted(t *testing.T) {
	data, err := json.Marshal(GaugeFigure(nil))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), `"value"`))
}

func TestProjectMetadataOrder(t *testing.T) {
	ds := loadExample(t)

	views, err := Project(ds, "941")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id: 941",
		"ethnicity: Caucasian",
		"gender: F",
		"age: 24",
		"location: Beaufort/NC",
		"bbtype: I",
		"wfreq: 2",
	}, views.Metadata.Lines)
}

func TestProjectMalformedRecords(t *testing.T) {
	ds := loadExample(t)

	misaligned, err := Project(ds, "942")
	require.NoError(t, err)
	assert.Nil(t, misaligned.Bar)
	assert.Nil(t, misaligned.Bubble)
	assert.Nil(t, misaligned.Summary)
	require.NotNil(t, misaligned.Gauge, "null wfreq still renders a gauge")
	assert.Nil(t, misaligned.Gauge.Data[0].Value)
	assert.Equal(t, []string{"id: 942", "wfreq: null"}, misaligned.Metadata.Lines)
	assert.Len(t, misaligned.Skipped, 3)

	noWfreq, err := Project(ds, "943")
	require.NoError(t, err)
	assert.NotNil(t, noWfreq.Bar)
	assert.Nil(t, noWfreq.Gauge)
	assert.NotNil(t, noWfreq.Metadata)
	require.Len(t, noWfreq.Skipped, 1)
	assert.Equal(t, chart.RegionGauge, noWfreq.Skipped[0].Region)
}

func TestProjectUnknownSubject(t *testing.T) {
	ds := loadExample(t)

	// numbers that parse to a known subject but are not listed in names
	for _, subject := range []string{"999", "abc", "", "0940", " 940", "+940", "940\n"} {
		_, err := Project(ds, subject)
		require.Error(t, err, subject)
		assert.Equal(t, errors.CodeUnknownSubject, errors.GetCode(err), subject)
	}

	_, err := Project(nil, "940")
	assert.Equal(t, errors.CodeDatasetNotLoaded, errors.GetCode(err))
}

func TestProjectIsDeterministic(t *testing.T) {
	ds := loadExample(t)

	first, err := Project(ds, "941")
	require.NoError(t, err)
	second, err := Project(ds, "941")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

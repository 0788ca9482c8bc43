package dashboard

import (
	"fmt"

	"bellybutton/domain/chart"
	"bellybutton/domain/core"
	"bellybutton/domain/dataset"
	"bellybutton/internal/errors"
)

// TopOTUCount is the number of OTUs shown in the bar chart
const TopOTUCount = 10

// GaugeMax is the upper end of the washing frequency scale
const GaugeMax = 9

var gaugeColors = [GaugeMax]string{
	"rgba(255, 0, 0, 0.5)",
	"rgba(255, 51, 0, 0.5)",
	"rgba(255, 102, 0, 0.5)",
	"rgba(255, 153, 0, 0.5)",
	"rgba(255, 204, 0, 0.5)",
	"rgba(255, 255, 0, 0.5)",
	"rgba(204, 255, 0, 0.5)",
	"rgba(153, 255, 0, 0.5)",
	"rgba(102, 255, 0, 0.5)",
}

// Project resolves a subject and builds every view for it. subject must
// equal one of the dataset's names exactly; anything else, including
// other spellings of the same number, returns an UNKNOWN_SUBJECT error.
// Missing or malformed records leave the affected views nil and are
// listed in ViewSet.Skipped.
func Project(ds *dataset.Dataset, subject string) (*chart.ViewSet, error) {
	if ds == nil {
		return nil, errors.DatasetNotLoaded()
	}
	id, err := core.ParseSubjectID(subject)
	if err != nil {
		return nil, errors.WithCode(errors.CodeUnknownSubject, err)
	}
	// the canonical id only joins samples and metadata
	if name, ok := ds.SubjectName(id); !ok || name != subject {
		return nil, errors.UnknownSubject(subject)
	}

	views := &chart.ViewSet{Subject: subject}

	sample := ds.Sample(id)
	switch {
	case sample == nil:
		views.Skip("no sample record", chart.RegionBar, chart.RegionBubble, chart.RegionSummary)
	case !sample.Aligned():
		reason := fmt.Sprintf("%v: %d otu_ids, %d otu_labels, %d sample_values",
			core.ErrMisaligned, len(sample.OTUIDs), len(sample.OTULabels), len(sample.SampleValues))
		views.Skip(reason, chart.RegionBar, chart.RegionBubble, chart.RegionSummary)
	default:
		views.Bar = BarFigure(sample)
		views.Bubble = BubbleFigure(sample)
		views.Summary = Summarize(sample)
	}

	meta := ds.MetadataFor(id)
	if meta == nil {
		views.Skip("no metadata record", chart.RegionGauge, chart.RegionMetadata)
		return views, nil
	}
	views.Metadata = MetadataPanel(meta)
	if wfreq, ok := meta.WashFrequency(); ok {
		views.Gauge = GaugeFigure(wfreq)
	} else {
		views.Skip(fmt.Sprintf("%v: wfreq", core.ErrMissingField), chart.RegionGauge)
	}
	return views, nil
}

// BarFigure builds the horizontal bar chart of the first TopOTUCount
// entries, reversed so the first entry is drawn at the top.
func BarFigure(s *dataset.Sample) *chart.Figure {
	n := min(TopOTUCount, s.Len())
	values := make([]float64, n)
	ids := make([]string, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		j := n - 1 - i
		values[i] = s.SampleValues[j]
		ids[i] = fmt.Sprintf("OTU %d", s.OTUIDs[j])
		labels[i] = s.OTULabels[j]
	}

	return &chart.Figure{
		Data: []chart.Trace{{
			Type:        "bar",
			Orientation: "h",
			X:           values,
			Y:           ids,
			Text:        labels,
		}},
		Layout: chart.Layout{
			Title: fmt.Sprintf("Top 10 OTUs for Subject ID %s", s.ID),
			XAxis: &chart.Axis{Title: "Sample Values"},
			YAxis: &chart.Axis{Title: "OTU ID"},
		},
	}
}

// BubbleFigure plots every OTU of the sample
func BubbleFigure(s *dataset.Sample) *chart.Figure {
	ids := append([]int(nil), s.OTUIDs...)
	values := append([]float64(nil), s.SampleValues...)
	labels := append([]string(nil), s.OTULabels...)
	sizes := append([]float64(nil), s.SampleValues...)
	colors := append([]int(nil), s.OTUIDs...)

	return &chart.Figure{
		Data: []chart.Trace{{
			Mode: "markers",
			X:    ids,
			Y:    values,
			Text: labels,
			Marker: &chart.Marker{
				Size:       sizes,
				Color:      colors,
				ColorScale: "Viridis",
			},
		}},
		Layout: chart.Layout{
			Title: fmt.Sprintf("Bubble Chart for Subject ID %s", s.ID),
			XAxis: &chart.Axis{Title: "OTU ID"},
			YAxis: &chart.Axis{Title: "Sample Values"},
		},
	}
}

// GaugeFigure builds the washing frequency indicator. A nil value draws
// the gauge without a needle.
func GaugeFigure(wfreq *float64) *chart.Figure {
	var value *float64
	if wfreq != nil {
		v := *wfreq
		value = &v
	}

	steps := make([]chart.GaugeStep, GaugeMax)
	for i := range steps {
		steps[i] = chart.GaugeStep{
			Range: [2]float64{float64(i), float64(i + 1)},
			Color: gaugeColors[i],
		}
	}

	return &chart.Figure{
		Data: []chart.Trace{{
			Type:  "indicator",
			Mode:  "gauge+number",
			Value: value,
			Title: &chart.Title{
				Text: "Belly Button Washing Frequency<br>Scrubs per Week",
				Font: &chart.Font{Size: 20},
			},
			Gauge: &chart.Gauge{
				Axis:        chart.GaugeAxis{Range: [2]float64{0, GaugeMax}, TickWidth: 1, TickColor: "darkblue"},
				Bar:         chart.GaugeBar{Color: "darkblue"},
				BgColor:     "white",
				BorderWidth: 2,
				BorderColor: "gray",
				Steps:       steps,
			},
		}},
		Layout: chart.Layout{
			Width:  400,
			Height: 300,
			Margin: &chart.Margin{T: 25, R: 25, L: 25, B: 25},
		},
	}
}

// MetadataPanel renders one "key: value" line per field, in record order
func MetadataPanel(m *dataset.MetadataRecord) *chart.MetadataPanel {
	lines := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Key, dataset.FormatValue(f.Value)))
	}
	return &chart.MetadataPanel{Lines: lines}
}

package chart

// Region names the display areas of the dashboard page
type Region string

const (
	RegionSelector Region = "selector"
	RegionBar      Region = "bar"
	RegionBubble   Region = "bubble"
	RegionGauge    Region = "gauge"
	RegionMetadata Region = "sample-metadata"
	RegionSummary  Region = "summary"
)

// ViewRegions lists the regions replaced on every selection, in render order
var ViewRegions = []Region{RegionBar, RegionBubble, RegionGauge, RegionMetadata, RegionSummary}

// Option is one entry of the subject selector
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Figure is a trace list plus layout, the shape Plotly.newPlot expects
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace describes one plotted series. Only the attributes the dashboard
// uses are modelled.
type Trace struct {
	Type        string      `json:"type,omitempty"`
	Mode        string      `json:"mode,omitempty"`
	Orientation string      `json:"orientation,omitempty"`
	X           interface{} `json:"x,omitempty"`
	Y           interface{} `json:"y,omitempty"`
	Text        []string    `json:"text,omitempty"`
	Marker      *Marker     `json:"marker,omitempty"`
	Value       *float64    `json:"value,omitempty"`
	Title       *Title      `json:"title,omitempty"`
	Gauge       *Gauge      `json:"gauge,omitempty"`
}

// Marker controls bubble size and colour
type Marker struct {
	Size       []float64 `json:"size,omitempty"`
	Color      []int     `json:"color,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
}

// Title is a Plotly title object
type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

// Font is a Plotly font object
type Font struct {
	Size int `json:"size"`
}

// Gauge configures an indicator trace
type Gauge struct {
	Axis        GaugeAxis   `json:"axis"`
	Bar         GaugeBar    `json:"bar"`
	BgColor     string      `json:"bgcolor"`
	BorderWidth int         `json:"borderwidth"`
	BorderColor string      `json:"bordercolor"`
	Steps       []GaugeStep `json:"steps"`
}

// GaugeAxis is the gauge scale
type GaugeAxis struct {
	Range     [2]float64 `json:"range"`
	TickWidth int        `json:"tickwidth"`
	TickColor string     `json:"tickcolor"`
}

// GaugeBar is the needle bar of the gauge
type GaugeBar struct {
	Color string `json:"color"`
}

// GaugeStep is one coloured band of the gauge
type GaugeStep struct {
	Range [2]float64 `json:"range"`
	Color string     `json:"color"`
}

// Layout holds titles, axes and sizing
type Layout struct {
	Title  string  `json:"title,omitempty"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Margin *Margin `json:"margin,omitempty"`
}

// Axis is an axis with a title
type Axis struct {
	Title string `json:"title"`
}

// Margin is the layout margin in pixels
type Margin struct {
	T int `json:"t"`
	R int `json:"r"`
	L int `json:"l"`
	B int `json:"b"`
}

// MetadataPanel is the text content of the sample-metadata region
type MetadataPanel struct {
	Lines []string `json:"lines"`
}

// Summary describes the diversity of one sample
type Summary struct {
	Richness int     `json:"richness"`
	Total    float64 `json:"total"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Max      float64 `json:"max"`
	Shannon  float64 `json:"shannon"`
	Evenness float64 `json:"evenness"`
	TopOTU   int     `json:"top_otu"`
	TopLabel string  `json:"top_label"`
}

// ViewSet is the full projection for one subject. A nil view means the
// underlying record was missing or malformed and the region is cleared.
type ViewSet struct {
	Subject  string         `json:"subject"`
	Bar      *Figure        `json:"bar"`
	Bubble   *Figure        `json:"bubble"`
	Gauge    *Figure        `json:"gauge"`
	Metadata *MetadataPanel `json:"metadata"`
	Summary  *Summary       `json:"summary"`
	Skipped  []SkippedView  `json:"skipped,omitempty"`
}

// SkippedView records why a region was not projected
type SkippedView struct {
	Region Region `json:"region"`
	Reason string `json:"reason"`
}

// View returns the value projected for region, or nil
func (v *ViewSet) View(region Region) interface{} {
	switch region {
	case RegionBar:
		if v.Bar != nil {
			return v.Bar
		}
	case RegionBubble:
		if v.Bubble != nil {
			return v.Bubble
		}
	case RegionGauge:
		if v.Gauge != nil {
			return v.Gauge
		}
	case RegionMetadata:
		if v.Metadata != nil {
			return v.Metadata
		}
	case RegionSummary:
		if v.Summary != nil {
			return v.Summary
		}
	}
	return nil
}

// Skip marks regions as not projected
func (v *ViewSet) Skip(reason string, regions ...Region) {
	for _, r := range regions {
		v.Skipped = append(v.Skipped, SkippedView{Region: r, Reason: reason})
	}
}

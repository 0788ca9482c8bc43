package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"bellybutton/domain/chart"
)

// Markdown renders the views of one subject as a markdown document
func Markdown(views *chart.ViewSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Subject %s\n\n", views.Subject)

	b.WriteString("## Demographic Info\n\n")
	if views.Metadata == nil {
		b.WriteString("_No metadata recorded for this subject._\n\n")
	} else {
		for _, line := range views.Metadata.Lines {
			fmt.Fprintf(&b, "- %s\n", escape(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top OTUs\n\n")
	writeBar(&b, views.Bar)

	b.WriteString("## Belly Button Washing Frequency\n\n")
	switch {
	case views.Gauge == nil || len(views.Gauge.Data) == 0:
		b.WriteString("_Not recorded._\n\n")
	case views.Gauge.Data[0].Value == nil:
		b.WriteString("Scrubs per week: _unknown_\n\n")
	default:
		fmt.Fprintf(&b, "Scrubs per week: **%g**\n\n", *views.Gauge.Data[0].Value)
	}

	if s := views.Summary; s != nil {
		b.WriteString("## Diversity\n\n")
		b.WriteString("| Measure | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Richness | %d |\n", s.Richness)
		fmt.Fprintf(&b, "| Total | %g |\n", s.Total)
		fmt.Fprintf(&b, "| Mean | %.2f |\n", s.Mean)
		fmt.Fprintf(&b, "| Median | %g |\n", s.Median)
		fmt.Fprintf(&b, "| Max | %g |\n", s.Max)
		fmt.Fprintf(&b, "| Shannon index | %.3f |\n", s.Shannon)
		fmt.Fprintf(&b, "| Evenness | %.3f |\n", s.Evenness)
		fmt.Fprintf(&b, "| Most abundant | OTU %d |\n\n", s.TopOTU)
	}

	if len(views.Skipped) > 0 {
		b.WriteString("## Unavailable views\n\n")
		for _, skipped := range views.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", skipped.Region, escape(skipped.Reason))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeBar(b *strings.Builder, fig *chart.Figure) {
	if fig == nil || len(fig.Data) == 0 {
		b.WriteString("_No sample recorded for this subject._\n\n")
		return
	}
	trace := fig.Data[0]
	values, _ := trace.X.([]float64)
	ids, _ := trace.Y.([]string)

	b.WriteString("| OTU | Sample value | Label |\n|---|---|---|\n")
	// the bar chart lists entries bottom-up, the table reads top-down
	for i := len(values) - 1; i >= 0; i-- {
		label := ""
		if i < len(trace.Text) {
			label = trace.Text[i]
		}
		fmt.Fprintf(b, "| %s | %g | %s |\n", ids[i], values[i], escape(label))
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")

func escape(s string) string {
	return escaper.Replace(s)
}

var policy = bluemonday.UGCPolicy()

// HTML converts a markdown report to sanitized HTML. Raw HTML in the
// source is dropped and unsafe link targets are removed.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return policy.SanitizeBytes(markdown.ToHTML([]byte(md), p, renderer))
}

package dashboard

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bellybutton/domain/chart"
	"bellybutton/domain/dataset"
)

// Summarize computes diversity figures for an aligned sample: richness
// (OTUs with a positive count), Shannon entropy of the relative
// abundances and Pielou's evenness.
func Summarize(s *dataset.Sample) *chart.Summary {
	summary := &chart.Summary{}
	if s.Len() == 0 {
		return summary
	}

	data := stats.Float64Data(s.SampleValues)
	summary.Mean, _ = stats.Mean(data)
	summary.Median, _ = stats.Median(data)
	summary.Max, _ = stats.Max(data)
	summary.Total = floats.Sum(s.SampleValues)

	top := floats.MaxIdx(s.SampleValues)
	summary.TopOTU = s.OTUIDs[top]
	summary.TopLabel = s.OTULabels[top]

	positive := make([]float64, 0, len(s.SampleValues))
	var positiveTotal float64
	for _, v := range s.SampleValues {
		if v > 0 {
			positive = append(positive, v)
			positiveTotal += v
		}
	}
	summary.Richness = len(positive)
	if positiveTotal == 0 {
		return summary
	}

	proportions := make([]float64, len(positive))
	floats.ScaleTo(proportions, 1/positiveTotal, positive)
	summary.Shannon = stat.Entropy(proportions)
	if summary.Richness > 1 {
		summary.Evenness = summary.Shannon / math.Log(float64(summary.Richness))
	}
	return summary
}

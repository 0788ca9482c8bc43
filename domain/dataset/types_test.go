package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleAligned(t *testing.T) {
	aligned := Sample{OTUIDs: []int{1, 2}, OTULabels: []string{"a", "b"}, SampleValues: []float64{1, 2}}
	assert.True(t, aligned.Aligned())
	assert.Equal(t, 2, aligned.Len())

	short := Sample{OTUIDs: []int{1, 2}, OTULabels: []string{"a"}, SampleValues: []float64{1, 2}}
	assert.False(t, short.Aligned())
}

func TestWashFrequency(t *testing.T) {
	tests := []struct {
		name     string
		fields   []MetadataField
		expected *float64
		ok       bool
	}{
		{"numeric", []MetadataField{{Key: "wfreq", Value: 5.0}}, ptr(5), true},
		{"null", []MetadataField{{Key: "wfreq", Value: nil}}, nil, true},
		{"numeric string", []MetadataField{{Key: "wfreq", Value: "3"}}, ptr(3), true},
		{"garbage string", []MetadataField{{Key: "wfreq", Value: "often"}}, nil, false},
		{"missing", []MetadataField{{Key: "id", Value: 940.0}}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := MetadataRecord{Fields: tt.fields}
			value, ok := record.WashFrequency()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "940", FormatValue(940.0))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "null", FormatValue(nil))
	assert.Equal(t, "Beaufort/NC", FormatValue("Beaufort/NC"))
	assert.Equal(t, "true", FormatValue(true))
}

func ptr(f float64) *float64 {
	return &f
}

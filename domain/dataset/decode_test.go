package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bellybutton/domain/core"
)

const sampleDocument = `{
	"names": ["940", "941"],
	"metadata": [
		{"id": 940, "ethnicity": "Caucasian", "gender": "F", "age": 24.0, "location": "Beaufort/NC", "bbtype": "I", "wfreq": 2.0},
		{"id": 941, "ethnicity": "Caucasian/Midleastern", "gender": "F", "age": 34.0, "location": "Chicago/IL", "bbtype": "I", "wfreq": null}
	],
	"samples": [
		{"id": "940", "otu_ids": [1167, 2859, 482], "otu_labels": ["Bacteria;Bacteroidetes", "Bacteria;Firmicutes", "Bacteria"], "sample_values": [163, 126, 113]},
		{"id": 941, "otu_ids": [2722], "otu_labels": ["Bacteria;Firmicutes;Clostridia"], "sample_values": [7.5]}
	]
}`

func TestDecodePreservesOrder(t *testing.T) {
	ds, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, []string{"940", "941"}, ds.Names)
	require.Len(t, ds.Samples, 2)
	require.Len(t, ds.Metadata, 2)

	keys := make([]string, 0, len(ds.Metadata[0].Fields))
	for _, f := range ds.Metadata[0].Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"id", "ethnicity", "gender", "age", "location", "bbtype", "wfreq"}, keys)
}

func TestDecodeNormalizesSubjectIDs(t *testing.T) {
	ds, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	// sample 941 arrives with a numeric id, metadata with an integer id
	sample := ds.Sample(core.SubjectID(941))
	require.NotNil(t, sample)
	assert.Equal(t, "941", sample.ID)
	assert.Equal(t, []float64{7.5}, sample.SampleValues)

	meta := ds.MetadataFor(core.SubjectID(940))
	require.NotNil(t, meta)
	assert.Equal(t, core.SubjectID(940), meta.ID)

	assert.True(t, ds.HasSubject(core.SubjectID(940)))
	assert.False(t, ds.HasSubject(core.SubjectID(942)))
	assert.Nil(t, ds.Sample(core.SubjectID(942)))
	assert.Nil(t, ds.MetadataFor(core.SubjectID(942)))
}

func TestDecodeScalarValues(t *testing.T) {
	ds, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)

	meta := ds.MetadataFor(core.SubjectID(941))
	require.NotNil(t, meta)

	age, ok := meta.Get("age")
	require.True(t, ok)
	assert.Equal(t, 34.0, age)

	wfreq, ok := meta.Get("wfreq")
	require.True(t, ok)
	assert.Nil(t, wfreq)

	location, _ := meta.Get("location")
	assert.Equal(t, "Chicago/IL", location)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"names": [`},
		{"root array", `[1, 2, 3]`},
		{"non numeric name", `{"names": ["abc"], "samples": [], "metadata": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSkipsRecordsWithoutUsableID(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		section string
		target  error
	}{
		{"sample without id", `{"names": ["940"], "samples": [{"otu_ids": []}], "metadata": []}`, "samples", core.ErrMissingField},
		{"metadata without id", `{"names": ["940"], "samples": [], "metadata": [{"wfreq": 1}]}`, "metadata", core.ErrMissingField},
		{"non numeric sample id", `{"names": ["940"], "samples": [{"id": "x"}], "metadata": []}`, "samples", core.ErrInvalidSubjectID},
		{"non numeric metadata id", `{"names": ["940"], "samples": [], "metadata": [{"id": "x"}]}`, "metadata", core.ErrInvalidSubjectID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Decode([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, []string{"940"}, ds.Names)
			assert.Empty(t, ds.Samples)
			assert.Empty(t, ds.Metadata)

			require.Len(t, ds.Skipped, 1)
			assert.Equal(t, tt.section, ds.Skipped[0].Section)
			assert.Equal(t, 0, ds.Skipped[0].Index)
			assert.True(t, errors.Is(ds.Skipped[0].Err, tt.target))
		})
	}
}

func TestDecodeKeepsRecordsAroundSkippedOne(t *testing.T) {
	doc := `{"names": ["940", "941"],
		"samples": [{"id": "940", "otu_ids": [1], "otu_labels": ["a"], "sample_values": [1]}],
		"metadata": [{"id": 940, "wfreq": 2}, {"wfreq": 3}]}`

	ds, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.NotNil(t, ds.MetadataFor(core.SubjectID(940)))
	assert.Nil(t, ds.MetadataFor(core.SubjectID(941)))
	require.Len(t, ds.Skipped, 1)
	assert.Equal(t, "metadata[1]: required field missing: id", ds.Skipped[0].String())
}

func TestDecodeFirstRecordWins(t *testing.T) {
	doc := `{"names": ["5"], "samples": [
		{"id": "5", "otu_ids": [1], "otu_labels": ["a"], "sample_values": [1]},
		{"id": "5", "otu_ids": [2], "otu_labels": ["b"], "sample_values": [2]}
	], "metadata": []}`

	ds, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ds.Sample(core.SubjectID(5)).OTUIDs)
}

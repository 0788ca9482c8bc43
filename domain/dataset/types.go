package dataset

import (
	"fmt"
	"strconv"

	"bellybutton/domain/core"
)

// Dataset is the survey document: subject names, per-subject OTU samples
// and per-subject demographic metadata. It is immutable once decoded.
type Dataset struct {
	Names    []string         `json:"names"`
	Samples  []Sample         `json:"samples"`
	Metadata []MetadataRecord `json:"metadata"`

	// Skipped lists records left out while decoding
	Skipped []SkippedRecord `json:"-"`

	subjects map[core.SubjectID]string
	samples  map[core.SubjectID]int
	metadata map[core.SubjectID]int
}

// SkippedRecord is a sample or metadata record that could not be indexed
type SkippedRecord struct {
	Section string // "samples" or "metadata"
	Index   int
	Err     error
}

func (r SkippedRecord) String() string {
	return fmt.Sprintf("%s[%d]: %v", r.Section, r.Index, r.Err)
}

// Sample holds the OTU observations for one subject. The three sequences
// are positionally aligned.
type Sample struct {
	ID           string    `json:"id"`
	OTUIDs       []int     `json:"otu_ids"`
	OTULabels    []string  `json:"otu_labels"`
	SampleValues []float64 `json:"sample_values"`
}

// Len returns the number of OTU observations
func (s *Sample) Len() int {
	return len(s.OTUIDs)
}

// Aligned reports whether otu_ids, otu_labels and sample_values have equal length
func (s *Sample) Aligned() bool {
	return len(s.OTUIDs) == len(s.OTULabels) && len(s.OTUIDs) == len(s.SampleValues)
}

// MetadataField is one key/value pair of a metadata record
type MetadataField struct {
	Key   string
	Value interface{} // float64, string, bool or nil
}

// MetadataRecord keeps the fields in the order they appear in the document
type MetadataRecord struct {
	ID     core.SubjectID
	Fields []MetadataField
}

// Get returns the value for key and whether the key is present
func (m *MetadataRecord) Get(key string) (interface{}, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// WashFrequency returns the wfreq field. The pointer is nil when the
// field is present but null; ok is false when the field is missing or
// not numeric.
func (m *MetadataRecord) WashFrequency() (value *float64, ok bool) {
	raw, present := m.Get("wfreq")
	if !present {
		return nil, false
	}
	switch v := raw.(type) {
	case nil:
		return nil, true
	case float64:
		return &v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		return &f, true
	default:
		return nil, false
	}
}

// FormatValue renders a metadata value the way the panel displays it
func FormatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Build indexes the dataset by canonical subject ID. Names, sample ids and
// metadata ids must all parse as integers. When a subject appears more
// than once the first record wins.
func (d *Dataset) Build() error {
	d.subjects = make(map[core.SubjectID]string, len(d.Names))
	d.samples = make(map[core.SubjectID]int, len(d.Samples))
	d.metadata = make(map[core.SubjectID]int, len(d.Metadata))

	for _, name := range d.Names {
		id, err := core.ParseSubjectID(name)
		if err != nil {
			return fmt.Errorf("names: %w", err)
		}
		if _, exists := d.subjects[id]; !exists {
			d.subjects[id] = name
		}
	}
	for i := range d.Samples {
		id, err := core.ParseSubjectID(d.Samples[i].ID)
		if err != nil {
			return fmt.Errorf("samples[%d]: %w", i, err)
		}
		if _, exists := d.samples[id]; !exists {
			d.samples[id] = i
		}
	}
	for i := range d.Metadata {
		id := d.Metadata[i].ID
		if _, exists := d.metadata[id]; !exists {
			d.metadata[id] = i
		}
	}
	return nil
}

// HasSubject reports whether id is one of the dataset's names
func (d *Dataset) HasSubject(id core.SubjectID) bool {
	_, ok := d.subjects[id]
	return ok
}

// Sample returns the sample record for id, or nil
func (d *Dataset) Sample(id core.SubjectID) *Sample {
	i, ok := d.samples[id]
	if !ok {
		return nil
	}
	return &d.Samples[i]
}

// MetadataFor returns the metadata record for id, or nil
func (d *Dataset) MetadataFor(id core.SubjectID) *MetadataRecord {
	i, ok := d.metadata[id]
	if !ok {
		return nil
	}
	return &d.Metadata[i]
}

// SubjectName returns the name as listed in Names for id
func (d *Dataset) SubjectName(id core.SubjectID) (string, bool) {
	name, ok := d.subjects[id]
	return name, ok
}

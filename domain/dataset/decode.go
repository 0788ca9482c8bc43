package dataset

import (
	"fmt"

	"github.com/tidwall/gjson"

	"bellybutton/domain/core"
)

// Decode parses a samples.json document. Metadata fields keep their
// document order, which is why this walks the document with gjson
// instead of unmarshalling into maps. Sample and metadata records without
// a usable id are left out and listed in Dataset.Skipped; their subjects
// project with the affected views skipped.
func Decode(data []byte) (*Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("dataset is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("dataset root must be an object")
	}

	ds := &Dataset{
		Names:    []string{},
		Samples:  []Sample{},
		Metadata: []MetadataRecord{},
	}

	root.Get("names").ForEach(func(_, name gjson.Result) bool {
		ds.Names = append(ds.Names, name.String())
		return true
	})

	for i, raw := range root.Get("samples").Array() {
		sample, err := decodeSample(raw)
		if err != nil {
			ds.Skipped = append(ds.Skipped, SkippedRecord{Section: "samples", Index: i, Err: err})
			continue
		}
		ds.Samples = append(ds.Samples, sample)
	}

	for i, raw := range root.Get("metadata").Array() {
		record, err := decodeMetadata(raw)
		if err != nil {
			ds.Skipped = append(ds.Skipped, SkippedRecord{Section: "metadata", Index: i, Err: err})
			continue
		}
		ds.Metadata = append(ds.Metadata, record)
	}

	if err := ds.Build(); err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeSample(raw gjson.Result) (Sample, error) {
	if !raw.IsObject() {
		return Sample{}, fmt.Errorf("sample must be an object")
	}
	id := raw.Get("id")
	if !id.Exists() {
		return Sample{}, fmt.Errorf("%w: id", core.ErrMissingField)
	}
	if _, err := core.ParseSubjectID(id.String()); err != nil {
		return Sample{}, err
	}

	sample := Sample{
		ID:           id.String(),
		OTUIDs:       []int{},
		OTULabels:    []string{},
		SampleValues: []float64{},
	}
	for _, v := range raw.Get("otu_ids").Array() {
		sample.OTUIDs = append(sample.OTUIDs, int(v.Int()))
	}
	for _, v := range raw.Get("otu_labels").Array() {
		sample.OTULabels = append(sample.OTULabels, v.String())
	}
	for _, v := range raw.Get("sample_values").Array() {
		sample.SampleValues = append(sample.SampleValues, v.Float())
	}
	return sample, nil
}

func decodeMetadata(raw gjson.Result) (MetadataRecord, error) {
	if !raw.IsObject() {
		return MetadataRecord{}, fmt.Errorf("metadata record must be an object")
	}
	idField := raw.Get("id")
	if !idField.Exists() {
		return MetadataRecord{}, fmt.Errorf("%w: id", core.ErrMissingField)
	}
	id, err := core.ParseSubjectID(idField.String())
	if err != nil {
		return MetadataRecord{}, err
	}

	record := MetadataRecord{ID: id}
	raw.ForEach(func(key, value gjson.Result) bool {
		record.Fields = append(record.Fields, MetadataField{
			Key:   key.String(),
			Value: scalar(value),
		})
		return true
	})
	return record, nil
}

func scalar(v gjson.Result) interface{} {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	default:
		// nested values are displayed as their raw JSON text
		return v.Raw
	}
}

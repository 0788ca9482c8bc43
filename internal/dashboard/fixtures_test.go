package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bellybutton/domain/dataset"
)

// exampleDocument is the dataset used throughout these tests: 942 has a
// misaligned sample and a null wfreq, 943 has no wfreq at all
const exampleDocument = `{
	"names": ["940", "941", "942", "943"],
	"samples": [
		{"id": "940", "otu_ids": [1, 2, 3], "otu_labels": ["a", "b", "c"], "sample_values": [10, 20, 30]},
		{"id": "941", "otu_ids": [11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22],
		 "otu_labels": ["l11", "l12", "l13", "l14", "l15", "l16", "l17", "l18", "l19", "l20", "l21", "l22"],
		 "sample_values": [120, 110, 100, 90, 80, 70, 60, 50, 40, 30, 20, 10]},
		{"id": "942", "otu_ids": [1, 2], "otu_labels": ["only one"], "sample_values": [5, 6]},
		{"id": "943", "otu_ids": [7], "otu_labels": ["seven"], "sample_values": [70]}
	],
	"metadata": [
		{"id": 940, "wfreq": 5},
		{"id": 941, "ethnicity": "Caucasian", "gender": "F", "age": 24.0, "location": "Beaufort/NC", "bbtype": "I", "wfreq": 2.0},
		{"id": 942, "wfreq": null},
		{"id": 943, "gender": "M"}
	]
}`

func loadExample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Decode([]byte(exampleDocument))
	require.NoError(t, err)
	return ds
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).(*dataset.Dataset)
	return ds, args.Error(1)
}

func (m *mockSource) Describe() string {
	return "mock"
}

package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"bellybutton/domain/dataset"
)

// GeneratorConfig configures the synthetic survey generator
type GeneratorConfig struct {
	SubjectCount int   `json:"subject_count"`
	FirstSubject int   `json:"first_subject"`
	OTUPool      int   `json:"otu_pool"`
	MinOTUs      int   `json:"min_otus"`
	MaxOTUs      int   `json:"max_otus"`
	Seed         int64 `json:"seed"`

	// Rates of the gaps real survey data has
	MissingMetadataRate float64 `json:"missing_metadata_rate"`
	NullWashRate        float64 `json:"null_wash_rate"`
}

// DefaultGeneratorConfig returns a config shaped like the published dataset
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		SubjectCount:        153,
		FirstSubject:        940,
		OTUPool:             3674,
		MinOTUs:             1,
		MaxOTUs:             80,
		Seed:                42,
		MissingMetadataRate: 0,
		NullWashRate:        0.05,
	}
}

// document mirrors samples.json. Metadata is a struct so encoding keeps
// the field order of the published file.
type document struct {
	Names    []string   `json:"names"`
	Samples  []sample   `json:"samples"`
	Metadata []metadata `json:"metadata"`
}

type sample struct {
	ID           string    `json:"id"`
	OTUIDs       []int     `json:"otu_ids"`
	SampleValues []float64 `json:"sample_values"`
	OTULabels    []string  `json:"otu_labels"`
}

type metadata struct {
	ID        int      `json:"id"`
	Ethnicity string   `json:"ethnicity"`
	Gender    string   `json:"gender"`
	Age       float64  `json:"age"`
	Location  string   `json:"location"`
	BBType    string   `json:"bbtype"`
	WFreq     *float64 `json:"wfreq"`
}

var (
	ethnicities = []string{"Caucasian", "Asian", "Caucasian/Hispanic", "Caucasian/Midleastern", "African", "Hispanic"}
	locations   = []string{"Beaufort/NC", "Chicago/IL", "Raleigh/NC", "Durham/NC", "San Diego/CA", "Omaha/NE"}
	taxa        = []string{
		"Bacteria",
		"Bacteria;Actinobacteria;Actinobacteria;Actinomycetales;Corynebacteriaceae;Corynebacterium",
		"Bacteria;Bacteroidetes;Bacteroidia;Bacteroidales;Porphyromonadaceae;Porphyromonas",
		"Bacteria;Firmicutes;Clostridia;Clostridiales;IncertaeSedisXI;Peptoniphilus",
		"Bacteria;Firmicutes;Clostridia;Clostridiales;IncertaeSedisXI;Anaerococcus",
		"Bacteria;Firmicutes;Bacilli;Bacillales;Staphylococcaceae;Staphylococcus",
		"Bacteria;Proteobacteria;Gammaproteobacteria;Pseudomonadales;Moraxellaceae;Acinetobacter",
	}
)

// Generator produces deterministic synthetic survey documents
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator seeded from config
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Document generates a samples.json document
func (g *Generator) Document() ([]byte, error) {
	if g.config.SubjectCount < 0 || g.config.MinOTUs < 1 || g.config.MaxOTUs < g.config.MinOTUs {
		return nil, fmt.Errorf("invalid generator config: %+v", g.config)
	}
	if g.config.OTUPool < g.config.MaxOTUs {
		return nil, fmt.Errorf("otu pool of %d cannot fill %d distinct OTUs", g.config.OTUPool, g.config.MaxOTUs)
	}

	doc := document{
		Names:    make([]string, 0, g.config.SubjectCount),
		Samples:  make([]sample, 0, g.config.SubjectCount),
		Metadata: make([]metadata, 0, g.config.SubjectCount),
	}
	for i := 0; i < g.config.SubjectCount; i++ {
		id := g.config.FirstSubject + i
		name := fmt.Sprintf("%d", id)
		doc.Names = append(doc.Names, name)
		doc.Samples = append(doc.Samples, g.sample(name))
		if g.rng.Float64() >= g.config.MissingMetadataRate {
			doc.Metadata = append(doc.Metadata, g.metadata(id))
		}
	}
	return json.Marshal(doc)
}

// sample draws distinct OTUs with abundances sorted in descending order
func (g *Generator) sample(id string) sample {
	n := g.config.MinOTUs + g.rng.Intn(g.config.MaxOTUs-g.config.MinOTUs+1)

	otus := g.rng.Perm(g.config.OTUPool)[:n]
	values := make([]float64, n)
	for i := range values {
		// log-normal abundances give a few dominant OTUs and a long tail
		values[i] = math.Max(1, math.Round(math.Exp(g.rng.NormFloat64()*1.2+2.5)))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	s := sample{
		ID:           id,
		OTUIDs:       make([]int, n),
		SampleValues: values,
		OTULabels:    make([]string, n),
	}
	for i, otu := range otus {
		s.OTUIDs[i] = otu + 1
		s.OTULabels[i] = taxa[g.rng.Intn(len(taxa))]
	}
	return s
}

func (g *Generator) metadata(id int) metadata {
	m := metadata{
		ID:        id,
		Ethnicity: ethnicities[g.rng.Intn(len(ethnicities))],
		Gender:    []string{"F", "M"}[g.rng.Intn(2)],
		Age:       float64(18 + g.rng.Intn(60)),
		Location:  locations[g.rng.Intn(len(locations))],
		BBType:    []string{"I", "O"}[g.rng.Intn(2)],
	}
	if g.rng.Float64() >= g.config.NullWashRate {
		wfreq := float64(g.rng.Intn(10))
		m.WFreq = &wfreq
	}
	return m
}

// Source serves a generated dataset, for development without network
// access or a database
type Source struct {
	config GeneratorConfig
}

// NewSource creates a synthetic dataset source
func NewSource(config GeneratorConfig) *Source {
	return &Source{config: config}
}

// Fetch generates and decodes a fresh document
func (s *Source) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := NewGenerator(s.config).Document()
	if err != nil {
		return nil, err
	}
	return dataset.Decode(doc)
}

// Describe names the generator seed
func (s *Source) Describe() string {
	return fmt.Sprintf("synthetic:%d-subjects-seed-%d", s.config.SubjectCount, s.config.Seed)
}

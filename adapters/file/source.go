package file

import (
	"context"
	"fmt"
	"log"
	"os"

	"bellybutton/domain/dataset"
	"bellybutton/internal/errors"
)

// Source reads the dataset document from a local JSON file
type Source struct {
	path     string
	maxBytes int64
}

// NewSource creates a file source. A maxBytes of zero disables the size check.
func NewSource(path string, maxBytes int64) *Source {
	return &Source{path: path, maxBytes: maxBytes}
}

// Fetch reads and decodes the file
func (s *Source) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("dataset file %s", s.path))
		}
		return nil, errors.Wrapf(err, "failed to stat %s", s.path)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return nil, errors.InvalidInput(fmt.Sprintf("dataset file %s exceeds %d bytes", s.path, s.maxBytes), nil)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.path)
	}

	ds, err := dataset.Decode(data)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to decode %s", s.path), err)
	}

	log.Printf("[FileSource] Loaded %d subjects from %s", len(ds.Names), s.path)
	return ds, nil
}

// Describe returns the file path
func (s *Source) Describe() string {
	return "file://" + s.path
}

package ports

import (
	"context"

	"bellybutton/domain/dataset"
)

// DatasetSource loads the survey dataset. Implementations perform one
// blocking read per call; caching is the caller's concern.
type DatasetSource interface {
	Fetch(ctx context.Context) (*dataset.Dataset, error)

	// Describe names the source for logs and status output
	Describe() string
}

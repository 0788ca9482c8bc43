package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ID represents an opaque identifier (dashboard sessions, export batches)
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SubjectID is the canonical identifier of a survey participant.
// Samples carry it as a string and metadata as an integer; both are
// normalized to this type when the dataset is decoded.
type SubjectID int

// String returns the decimal form used for display and option values
func (id SubjectID) String() string {
	return strconv.Itoa(int(id))
}

// ParseSubjectID parses a subject name into its canonical form
func ParseSubjectID(s string) (SubjectID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: subject ID cannot be empty", ErrInvalidSubjectID)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidSubjectID, s)
	}
	return SubjectID(n), nil
}

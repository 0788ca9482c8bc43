package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidSubjectID = errors.New("invalid subject ID")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrMisaligned       = errors.New("sample sequences are not aligned")
	ErrMissingField     = errors.New("required field missing")
)

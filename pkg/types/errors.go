package types

import (
	"errors"
	"fmt"
)

// Domain errors shared by the composer, the pipelines and the transports
var (
	// Composition errors
	ErrMissingToken      = errors.New("token not found in skill space")
	ErrUnknownLanguage   = errors.New("language not found in skill space")
	ErrNoLanguage        = errors.New("at least one language is required")
	ErrSameLanguage      = errors.New("source and destination languages must differ")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// Ranking errors
	ErrUndefinedSimilarity = errors.New("similarity undefined for zero-length vector")
	ErrInvalidLocality     = errors.New("timezone has no activity data")
	ErrInvalidMetric       = errors.New("unknown popularity metric")
	ErrInvalidResultCount  = errors.New("result count out of range")
	ErrInvalidPercentage   = errors.New("percentage must be between 0 and 100")
)

// MissingTokenError names the first API token that the skill space does not know.
// It matches ErrMissingToken with errors.Is.
type MissingTokenError struct {
	Token string
}

func (e *MissingTokenError) Error() string {
	return fmt.Sprintf("API %s not found in our data", e.Token)
}

// Is allows errors.Is(err, ErrMissingToken)
func (e *MissingTokenError) Is(target error) bool {
	return target == ErrMissingToken
}

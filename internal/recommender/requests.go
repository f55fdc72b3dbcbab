package recommender

import (
	"fmt"
	"time"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

// Result count bounds shared by every request
const (
	DefaultMaxResults = 10
	MaxResultsLimit   = 20
)

// DefaultMinFemalePct is the diversity threshold used when none is given
const DefaultMinFemalePct = 5

// ExpertiseRequest recommends projects matching languages plus APIs
type ExpertiseRequest struct {
	Languages    []string `json:"languages"`
	APIs         string   `json:"apis"`
	MaxResults   int      `json:"max_results"`
	Diversity    bool     `json:"diversity"`
	MinFemalePct float64  `json:"min_female_pct"`
	Mentors      bool     `json:"mentors"`
}

// TransferRequest recommends projects for moving from one language to another
type TransferRequest struct {
	Source       string  `json:"source"`
	Destination  string  `json:"destination"`
	APIs         string  `json:"apis"`
	MaxResults   int     `json:"max_results"`
	SimilarAPIs  int     `json:"similar_apis"`
	Diversity    bool    `json:"diversity"`
	MinFemalePct float64 `json:"min_female_pct"`
	Mentors      bool    `json:"mentors"`
}

// PopularityRequest ranks projects by stars, forks or contributors
type PopularityRequest struct {
	Metric       string  `json:"metric"`
	Language     string  `json:"language"`
	MaxResults   int     `json:"max_results"`
	Diversity    bool    `json:"diversity"`
	MinFemalePct float64 `json:"min_female_pct"`
}

// LocalityRequest ranks projects by developer activity in a timezone
type LocalityRequest struct {
	Timezone     string  `json:"timezone"`
	Language     string  `json:"language"`
	MaxResults   int     `json:"max_results"`
	Diversity    bool    `json:"diversity"`
	MinFemalePct float64 `json:"min_female_pct"`
}

// Response is returned by every recommendation mode. An empty Projects
// slice is a valid answer.
type Response struct {
	Projects  []types.ProjectRow `json:"projects"`
	Mentors   []types.MentorRow  `json:"mentors,omitempty"`
	APIs      []types.APIRow     `json:"apis,omitempty"`
	Inspected int                `json:"inspected"`
	Duration  time.Duration      `json:"duration_ns"`
}

// resultCount applies the default and checks the range of a requested count
func resultCount(n int) (int, error) {
	if n == 0 {
		return DefaultMaxResults, nil
	}
	if n < 1 || n > MaxResultsLimit {
		return 0, fmt.Errorf("%w: %d (allowed 1-%d)", types.ErrInvalidResultCount, n, MaxResultsLimit)
	}
	return n, nil
}

func checkPercentage(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: %g", types.ErrInvalidPercentage, pct)
	}
	return nil
}

// diversityFilter builds the diversity half of a Filter. The threshold is
// used as given; transports apply DefaultMinFemalePct when it is omitted.
func diversityFilter(enabled bool, pct float64) (Filter, error) {
	if err := checkPercentage(pct); err != nil {
		return Filter{}, err
	}
	return Filter{Diversity: enabled, MinFemalePct: pct}, nil
}

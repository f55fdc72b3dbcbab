package types

// Project is the immutable metadata record of one project in the snapshot
type Project struct {
	ID           string
	Stars        int
	Forks        int
	Contributors int

	// FemalePct is the share (0-100) of identified authors inferred as female
	FemalePct float64

	// Languages holds the language tags present in the project's files
	Languages map[string]struct{}

	// CoreDevelopers lists the core author identifiers in snapshot order
	CoreDevelopers []string
}

// HasLanguage reports whether tag is present in the project's files
func (p *Project) HasLanguage(tag string) bool {
	_, ok := p.Languages[tag]
	return ok
}

// HasAnyLanguage reports whether at least one of tags is present.
// An empty tag list imposes no constraint.
func (p *Project) HasAnyLanguage(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if p.HasLanguage(t) {
			return true
		}
	}
	return false
}

// Metric selects the stored integer used by popularity ranking
type Metric string

const (
	MetricStars        Metric = "stars"
	MetricForks        Metric = "forks"
	MetricContributors Metric = "contributors"
)

// Value returns the project's value for metric m
func (m Metric) Value(p *Project) (int, error) {
	switch m {
	case MetricStars:
		return p.Stars, nil
	case MetricForks:
		return p.Forks, nil
	case MetricContributors:
		return p.Contributors, nil
	default:
		return 0, ErrInvalidMetric
	}
}

// ActivityEntry is one project in a timezone activity bucket
type ActivityEntry struct {
	ProjectPath string
	// ActiveDevelopers is the "all" bucket count of active developers
	ActiveDevelopers int
}

// ProjectIndex maps project identifiers to their records
type ProjectIndex map[string]*Project

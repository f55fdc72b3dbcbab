package types

import (
	"fmt"
	"strings"
)

// Vocabulary selects the key space a nearest-neighbour query searches
type Vocabulary string

const (
	VocabularyAnchors Vocabulary = "anchors" // Languages, projects and developers
	VocabularyTokens  Vocabulary = "tokens"  // APIs, libraries and packages
)

// Candidate is a (key, similarity) pair returned by a nearest-neighbour query
type Candidate struct {
	Key   string
	Score float64
}

// ProjectRow is one accepted project recommendation
type ProjectRow struct {
	URL          string  `json:"url"`
	Similarity   float64 `json:"similarity"`
	Stars        int     `json:"stars"`
	Forks        int     `json:"forks"`
	Contributors int     `json:"contributors"`
	FemalePct    float64 `json:"female_pct"`

	// ActiveDevelopers is only set by the locality ranking
	ActiveDevelopers int `json:"active_developers,omitempty"`
}

// SimilarityText formats the similarity with two decimals
func (r ProjectRow) SimilarityText() string {
	return fmt.Sprintf("%.2f", r.Similarity)
}

// FemalePctText formats the female developer percentage, e.g. "12.50%"
func (r ProjectRow) FemalePctText() string {
	return fmt.Sprintf("%.2f%%", r.FemalePct)
}

// MentorRow is a core developer ranked by similarity to the contributor
type MentorRow struct {
	Developer  string   `json:"developer"`
	Projects   []string `json:"projects"`
	Similarity float64  `json:"similarity"`
}

// ProjectsText joins the project URLs the developer is core on
func (r MentorRow) ProjectsText() string {
	return strings.Join(r.Projects, ",")
}

// APIRow is a recommended API from the token vocabulary
type APIRow struct {
	API        string  `json:"api"`
	Similarity float64 `json:"similarity"`
}

// SimilarityText formats the similarity with two decimals
func (r APIRow) SimilarityText() string {
	return fmt.Sprintf("%.2f", r.Similarity)
}

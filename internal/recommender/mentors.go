package recommender

import (
	"sort"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// MaxMentors bounds the mentor table
const MaxMentors = 10

// MatchMentors ranks the core developers of the accepted projects by cosine
// similarity of their own anchor vector to query. Placeholder identities,
// developers without a vector and zero-length vectors are skipped.
func MatchMentors(store embedding.Store, query types.Vector, cores *CoreProjects) []types.MentorRow {
	if cores == nil {
		return nil
	}

	var rows []types.MentorRow
	for _, dev := range cores.Developers() {
		if !types.IsResolvableDeveloper(dev) {
			continue
		}
		vec, ok := store.AnchorVector(dev)
		if !ok {
			continue
		}
		sim, err := types.Cosine(query, vec)
		if err != nil {
			continue
		}
		rows = append(rows, types.MentorRow{
			Developer:  dev,
			Projects:   append([]string(nil), cores.Projects(dev)...),
			Similarity: sim,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Similarity > rows[j].Similarity
	})
	if len(rows) > MaxMentors {
		rows = rows[:MaxMentors]
	}
	return rows
}

package resolver

import (
	"strings"

	"github.com/dshills/skillspace-mcp/pkg/types"
)

// alternateHosts are hosts encoded in the identifier itself
var alternateHosts = []string{"gitlab.com", "bitbucket.org", "gitbox.com"}

// CanonicalURL derives the hosting URL of a project identifier.
//
//	"golang_go"                -> "https://github.com/golang/go"
//	"gitlab.com_group_repo"    -> "https://gitlab.com/group/repo"
//
// A doubled separator ("__") is collapsed first. Identifiers whose segments
// contain a literal underscore cannot be told apart from deeper paths, so the
// result is a best effort.
func CanonicalURL(id string) string {
	id = strings.ReplaceAll(id, ProjectSeparatorDoubled, types.ProjectSeparator)
	for _, host := range alternateHosts {
		if strings.Contains(id, host) {
			return "https://" + strings.Replace(id, types.ProjectSeparator, "/", 2)
		}
	}
	return "https://github.com/" + strings.Replace(id, types.ProjectSeparator, "/", 1)
}

// ProjectSeparatorDoubled is collapsed to a single separator before deriving URLs
const ProjectSeparatorDoubled = types.ProjectSeparator + types.ProjectSeparator

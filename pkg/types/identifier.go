package types

import "strings"

const (
	// ProjectSeparator joins organization and repository segments in project keys
	ProjectSeparator = "_"

	// placeholderMarker appears in anchor keys that stand for tags, never projects
	placeholderMarker = "<"

	// anonymizedMarker appears in developer identifiers that cannot be contacted
	anonymizedMarker = "noreply"
)

// IsProjectKey reports whether an anchor key is shaped like a project identifier
func IsProjectKey(key string) bool {
	return strings.Contains(key, ProjectSeparator) && !strings.Contains(key, placeholderMarker)
}

// IsResolvableDeveloper reports whether a core developer identifier can be
// matched as a mentor. Identifiers without a "." are placeholders and
// anonymized addresses are skipped.
func IsResolvableDeveloper(id string) bool {
	return strings.Contains(id, ".") && !strings.Contains(id, anonymizedMarker)
}

// ProjectIDFromPath converts a hosting path such as "github.com/org/repo" or
// "gitlab.com/group/sub/repo" into the underscore-joined project identifier.
func ProjectIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	keep := 3
	if strings.Contains(path, "github.com") {
		keep = 2
	}
	if len(parts) > keep {
		parts = parts[len(parts)-keep:]
	}
	return strings.Join(parts, ProjectSeparator)
}

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

func languageNames() []string {
	names := make([]string, len(types.Languages))
	for i, l := range types.Languages {
		names[i] = l.Name
	}
	return names
}

// filterProperties are shared by every recommendation tool
func filterProperties(props map[string]interface{}) map[string]interface{} {
	props["max_results"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of projects to return (1-20)",
		"default":     recommender.DefaultMaxResults,
		"minimum":     1,
		"maximum":     recommender.MaxResultsLimit,
	}
	props["diversity"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, only return projects whose share of female developers reaches min_female_pct",
		"default":     false,
	}
	props["min_female_pct"] = map[string]interface{}{
		"type":        "number",
		"description": "Minimum percentage of female developers (0-100), used with diversity",
		"default":     recommender.DefaultMinFemalePct,
		"minimum":     0,
		"maximum":     100,
	}
	return props
}

// recommendByExpertiseTool returns the tool definition for recommend_by_expertise
func recommendByExpertiseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recommend_by_expertise",
		Description: "Recommend open-source projects matching a contributor's languages and APIs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: filterProperties(map[string]interface{}{
				"languages": map[string]interface{}{
					"type":        "array",
					"description": "Languages the contributor knows; projects must contain at least one",
					"items": map[string]interface{}{
						"type": "string",
						"enum": languageNames(),
					},
					"minItems": 1,
				},
				"apis": map[string]interface{}{
					"type":        "string",
					"description": "Semicolon-separated APIs or packages, e.g. 'numpy;pandas'. Names must match exactly.",
				},
				"mentors": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, also rank core developers of the recommended projects as mentors",
					"default":     false,
				},
			}),
			Required: []string{"languages"},
		},
	}
}

// recommendByTransferTool returns the tool definition for recommend_by_transfer
func recommendByTransferTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recommend_by_transfer",
		Description: "Recommend projects in a new language for a contributor experienced in another one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: filterProperties(map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Language the contributor knows",
					"enum":        languageNames(),
				},
				"destination": map[string]interface{}{
					"type":        "string",
					"description": "Language the contributor wants to learn; must differ from source",
					"enum":        languageNames(),
				},
				"apis": map[string]interface{}{
					"type":        "string",
					"description": "Semicolon-separated APIs the contributor knows",
				},
				"similar_apis": map[string]interface{}{
					"type":        "integer",
					"description": "Number of related APIs to suggest (0-20)",
					"default":     0,
					"minimum":     0,
					"maximum":     20,
				},
				"mentors": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, also rank core developers of the recommended projects as mentors",
					"default":     false,
				},
			}),
			Required: []string{"source", "destination"},
		},
	}
}

// recommendByPopularityTool returns the tool definition for recommend_by_popularity
func recommendByPopularityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recommend_by_popularity",
		Description: "List the most popular projects by stars, forks or contributors",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: filterProperties(map[string]interface{}{
				"metric": map[string]interface{}{
					"type":        "string",
					"description": "Popularity measure",
					"enum":        []string{string(types.MetricStars), string(types.MetricForks), string(types.MetricContributors)},
					"default":     string(types.MetricStars),
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language tag from list_languages, or ALL",
					"default":     types.AllLanguages,
				},
			}),
		},
	}
}

// recommendByLocalityTool returns the tool definition for recommend_by_locality
func recommendByLocalityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "recommend_by_locality",
		Description: "List projects with the most developers active in a timezone",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: filterProperties(map[string]interface{}{
				"timezone": map[string]interface{}{
					"type":        "string",
					"description": "UTC offset such as 'UTC+5:30' or '-3', see list_timezones",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Language tag from list_languages, or ALL",
					"default":     types.AllLanguages,
				},
			}),
			Required: []string{"timezone"},
		},
	}
}

// listLanguagesTool returns the tool definition for list_languages
func listLanguagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_languages",
		Description: "List the languages accepted by the recommendation tools",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listTimezonesTool returns the tool definition for list_timezones
func listTimezonesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_timezones",
		Description: "List the UTC offsets with developer activity data",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report snapshot statistics and health",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

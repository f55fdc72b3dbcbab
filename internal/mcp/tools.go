package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeSnapshotNotReady = -32003 // Snapshot database is empty or unreadable
	ErrorCodeMissingToken     = -32004 // An API is not in the skill space vocabulary
)

// handleRecommendByExpertise handles the recommend_by_expertise tool invocation
func (s *Server) handleRecommendByExpertise(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	languages := getStringSlice(args, "languages")
	if len(languages) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "languages parameter is required", map[string]interface{}{
			"param":  "languages",
			"reason": "missing or empty",
		})
	}

	resp, err := s.service.RecommendByExpertise(ctx, recommender.ExpertiseRequest{
		Languages:    languages,
		APIs:         getStringDefault(args, "apis", ""),
		MaxResults:   getIntDefault(args, "max_results", recommender.DefaultMaxResults),
		Diversity:    getBoolDefault(args, "diversity", false),
		MinFemalePct: getFloatDefault(args, "min_female_pct", recommender.DefaultMinFemalePct),
		Mentors:      getBoolDefault(args, "mentors", false),
	})
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(formatResponse(resp))), nil
}

// handleRecommendByTransfer handles the recommend_by_transfer tool invocation
func (s *Server) handleRecommendByTransfer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	for _, param := range []string{"source", "destination"} {
		if v, ok := args[param].(string); !ok || strings.TrimSpace(v) == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, param+" parameter is required", map[string]interface{}{
				"param":  param,
				"reason": "missing or empty",
			})
		}
	}

	resp, err := s.service.RecommendByTransfer(ctx, recommender.TransferRequest{
		Source:       getStringDefault(args, "source", ""),
		Destination:  getStringDefault(args, "destination", ""),
		APIs:         getStringDefault(args, "apis", ""),
		MaxResults:   getIntDefault(args, "max_results", recommender.DefaultMaxResults),
		SimilarAPIs:  getIntDefault(args, "similar_apis", 0),
		Diversity:    getBoolDefault(args, "diversity", false),
		MinFemalePct: getFloatDefault(args, "min_female_pct", recommender.DefaultMinFemalePct),
		Mentors:      getBoolDefault(args, "mentors", false),
	})
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(formatResponse(resp))), nil
}

// handleRecommendByPopularity handles the recommend_by_popularity tool invocation
func (s *Server) handleRecommendByPopularity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	resp, err := s.service.RecommendByPopularity(ctx, recommender.PopularityRequest{
		Metric:       getStringDefault(args, "metric", string(types.MetricStars)),
		Language:     getStringDefault(args, "language", types.AllLanguages),
		MaxResults:   getIntDefault(args, "max_results", recommender.DefaultMaxResults),
		Diversity:    getBoolDefault(args, "diversity", false),
		MinFemalePct: getFloatDefault(args, "min_female_pct", recommender.DefaultMinFemalePct),
	})
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(formatResponse(resp))), nil
}

// handleRecommendByLocality handles the recommend_by_locality tool invocation
func (s *Server) handleRecommendByLocality(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	timezone, ok := args["timezone"].(string)
	if !ok || timezone == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "timezone parameter is required", map[string]interface{}{
			"param":  "timezone",
			"reason": "missing or empty",
		})
	}

	resp, err := s.service.RecommendByLocality(ctx, recommender.LocalityRequest{
		Timezone:     timezone,
		Language:     getStringDefault(args, "language", types.AllLanguages),
		MaxResults:   getIntDefault(args, "max_results", recommender.DefaultMaxResults),
		Diversity:    getBoolDefault(args, "diversity", false),
		MinFemalePct: getFloatDefault(args, "min_female_pct", recommender.DefaultMinFemalePct),
	})
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(formatResponse(resp))), nil
}

// handleListLanguages handles the list_languages tool invocation
func (s *Server) handleListLanguages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"languages": s.service.Languages(),
	}

	// Ranking tools also accept any tag seen in the snapshot
	if tags, err := s.service.ProjectLanguages(ctx); err == nil {
		response["project_languages"] = tags
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListTimezones handles the list_timezones tool invocation
func (s *Server) handleListTimezones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	zones, err := s.service.Timezones(ctx)
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"timezones": zones})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"loaded": s.snapshots.Loaded(),
		"statistics": map[string]interface{}{
			"anchors_count":   status.AnchorsCount,
			"tokens_count":    status.TokensCount,
			"projects_count":  status.ProjectsCount,
			"languages_count": status.LanguagesCount,
			"timezones_count": status.TimezoneCount,
			"dimension":       status.Dimension,
			"schema_version":  status.SchemaVersion,
			"size_mb":         fmt.Sprintf("%.2f", status.SizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"embeddings_loaded":   status.Health.EmbeddingsLoaded,
			"projects_loaded":     status.Health.ProjectsLoaded,
		},
	}
	if cache, ok := s.snapshots.CacheStats(); ok {
		response["neighbor_cache"] = cache
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// formatResponse renders rows with their display text next to the raw values
func formatResponse(resp *recommender.Response) map[string]interface{} {
	projects := make([]map[string]interface{}, len(resp.Projects))
	for i, p := range resp.Projects {
		row := map[string]interface{}{
			"url":          p.URL,
			"stars":        p.Stars,
			"forks":        p.Forks,
			"contributors": p.Contributors,
			"female_pct":   p.FemalePctText(),
		}
		if p.Similarity != 0 {
			row["similarity"] = p.SimilarityText()
		}
		if p.ActiveDevelopers != 0 {
			row["active_developers"] = p.ActiveDevelopers
		}
		projects[i] = row
	}

	out := map[string]interface{}{
		"projects":    projects,
		"inspected":   resp.Inspected,
		"duration_ms": resp.Duration.Round(time.Millisecond).Milliseconds(),
	}
	if len(resp.Projects) == 0 {
		out["message"] = "No projects matched the filters."
	}
	if len(resp.Mentors) > 0 {
		mentors := make([]map[string]interface{}, len(resp.Mentors))
		for i, m := range resp.Mentors {
			mentors[i] = map[string]interface{}{
				"developer":  m.Developer,
				"projects":   m.ProjectsText(),
				"similarity": fmt.Sprintf("%.2f", m.Similarity),
			}
		}
		out["mentors"] = mentors
	}
	if len(resp.APIs) > 0 {
		apis := make([]map[string]interface{}, len(resp.APIs))
		for i, a := range resp.APIs {
			apis[i] = map[string]interface{}{
				"api":        a.API,
				"similarity": a.SimilarityText(),
			}
		}
		out["apis"] = apis
	}
	return out
}

// toMCPError maps domain errors onto MCP error codes
func toMCPError(err error) error {
	var missing *types.MissingTokenError
	switch {
	case errors.As(err, &missing):
		return newMCPError(ErrorCodeMissingToken, missing.Error(), map[string]interface{}{
			"token": missing.Token,
		})
	case errors.Is(err, types.ErrNoLanguage),
		errors.Is(err, types.ErrUnknownLanguage),
		errors.Is(err, types.ErrSameLanguage),
		errors.Is(err, types.ErrInvalidMetric),
		errors.Is(err, types.ErrInvalidLocality),
		errors.Is(err, types.ErrInvalidResultCount),
		errors.Is(err, types.ErrInvalidPercentage):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	case errors.Is(err, embedding.ErrEmptySpace):
		return newMCPError(ErrorCodeSnapshotNotReady, "snapshot not imported", map[string]interface{}{
			"hint": "run 'skillspace import' first",
		})
	default:
		return newMCPError(ErrorCodeInternalError, "recommendation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON. Developer identities carry
// "<email>" and are written unescaped.
func formatJSON(data map[string]interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Sprintf("%v", data)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	switch val := args[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice accepts a JSON array of strings or a comma-separated string
func getStringSlice(args map[string]interface{}, key string) []string {
	var out []string
	switch val := args[key].(type) {
	case []interface{}:
		for _, v := range val {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range val {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Package mcp implements the Model Context Protocol (MCP) server for skillspace.
//
// The MCP server exposes seven tools to AI assistants:
//   - recommend_by_expertise: projects close to a set of languages and APIs
//   - recommend_by_transfer: projects in a new language for a contributor moving from another one
//   - recommend_by_popularity: projects with the most stars, forks or contributors
//   - recommend_by_locality: projects with the most developers active in a timezone
//   - list_languages: accepted language names and snapshot tags
//   - list_timezones: offsets with activity data
//   - get_status: snapshot statistics and health
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries the protocol, so all logging goes to stderr.
//
// # Basic Usage
//
//	skillspace import --projects Proj_info.json.gz --embeddings embeddings.json.gz
//	skillspace serve
//
// # Tool: recommend_by_expertise
//
//	Request:
//	{
//	  "name": "recommend_by_expertise",
//	  "arguments": {
//	    "languages": ["Python"],
//	    "apis": "numpy;pandas",
//	    "max_results": 5,
//	    "mentors": true
//	  }
//	}
//
//	Response:
//	{
//	  "projects": [
//	    {
//	      "url": "https://github.com/pandas-dev/pandas",
//	      "similarity": "0.87",
//	      "stars": 31000,
//	      "forks": 12000,
//	      "contributors": 2100,
//	      "female_pct": "6.40%"
//	    }
//	  ],
//	  "mentors": [
//	    {"developer": "Jane Doe <jane@example.org>", "projects": "https://github.com/pandas-dev/pandas", "similarity": "0.81"}
//	  ],
//	  "inspected": 14,
//	  "duration_ms": 950
//	}
//
// An empty "projects" list is a valid answer: the filters removed every
// candidate.
//
// # Error Handling
//
// Errors are returned as MCPError values:
//   - -32602: Invalid params (unknown language, same source and destination, bad range)
//   - -32603: Internal error (database, resolver)
//   - -32003: Snapshot not imported
//   - -32004: An API is not in the vocabulary; data names the token
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "skillspace": {
//	      "command": "/usr/local/bin/skillspace",
//	      "args": ["serve"],
//	      "env": {
//	        "SKILLSPACE_DATABASE_PATH": "/data/skillspace.db"
//	      }
//	    }
//	  }
//	}
package mcp
